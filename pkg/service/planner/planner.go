package planner

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/adapter"
	"github.com/m-mizutani/butler/pkg/model"
	"google.golang.org/genai"
)

// Planner wraps every call into the planning/answer oracle. Callers own
// failure classification; this service only shapes requests and decodes
// responses.
type Planner struct {
	gemini  adapter.Gemini
	timeout time.Duration
}

type Option func(*Planner)

// WithTimeout bounds each oracle call
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		p.timeout = d
	}
}

func New(gemini adapter.Gemini, opts ...Option) *Planner {
	p := &Planner{
		gemini:  gemini,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// contents converts conversation history plus the latest utterance into
// oracle content, mapping assistant turns to the model role.
func contents(history []model.Message, utterance string) []*genai.Content {
	out := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(msg.Content, role))
	}
	out = append(out, genai.NewContentFromText(utterance, genai.RoleUser))
	return out
}

// generate performs one bounded oracle call and extracts the response text
func (p *Planner) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "oracle call failed")
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", goerr.New("empty response from oracle")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
