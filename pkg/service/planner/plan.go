package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
	"google.golang.org/genai"
)

//go:embed prompt/plan.md
var planPromptRaw string

var planPromptTmpl = template.Must(template.New("plan").Parse(planPromptRaw))

//go:embed prompt/command.md
var commandPromptRaw string

// CreatePlan asks the oracle for a structured action plan. Transport
// failures come back as plain errors; payloads that do not satisfy the
// plan contract come back wrapping model.ErrPlanMalformed. In both cases
// the caller must substitute model.FallbackPlan.
func (p *Planner) CreatePlan(ctx context.Context, utterance string, history []model.Message, knowledge string) (*model.ActionPlan, error) {
	var buf bytes.Buffer
	if err := planPromptTmpl.Execute(&buf, map[string]any{
		"Knowledge": knowledge,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render plan prompt")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buf.String(), ""),
		ResponseMIMEType:  "application/json",
		Temperature:       ptrFloat32(0.0),
	}

	raw, err := p.generate(ctx, contents(history, utterance), config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to obtain action plan", goerr.V("utterance", utterance))
	}

	plan, err := model.ParsePlan([]byte(stripFences(raw)))
	if err != nil {
		return nil, goerr.Wrap(err, "oracle produced an invalid plan", goerr.V("payload", raw))
	}
	return plan, nil
}

// CommandPlan is the ordered sub-command sequence for an execute_cmd intent
type CommandPlan struct {
	Commands   string `json:"commands"`
	OutputType string `json:"output_type"`
}

// Sequence splits the conjunction-joined command string into trimmed
// sub-commands, preserving order.
func (c *CommandPlan) Sequence() []string {
	parts := strings.Split(c.Commands, "&&")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if cmd := strings.TrimSpace(part); cmd != "" {
			out = append(out, cmd)
		}
	}
	return out
}

// CreateCommandPlan translates a literal command description into an
// ordered sub-command sequence.
func (p *Planner) CreateCommandPlan(ctx context.Context, description string) (*CommandPlan, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(commandPromptRaw, ""),
		ResponseMIMEType:  "application/json",
		Temperature:       ptrFloat32(0.0),
	}

	raw, err := p.generate(ctx, contents(nil, description), config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to obtain command plan", goerr.V("description", description))
	}

	var plan CommandPlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &plan); err != nil {
		return nil, goerr.Wrap(model.ErrPlanMalformed, "command plan payload is not valid JSON", goerr.V("payload", raw))
	}
	if plan.OutputType == "" {
		plan.OutputType = "task"
	}
	return &plan, nil
}

// stripFences drops a markdown code fence the oracle may wrap around JSON
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
