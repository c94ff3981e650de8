package planner

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
	"google.golang.org/genai"
)

//go:embed prompt/answer.md
var answerPromptRaw string

var answerPromptTmpl = template.Must(template.New("answer").Parse(answerPromptRaw))

// DirectAnswer generates a free-form conversational answer. digest may be
// empty; when present it carries a condensed web search context.
func (p *Planner) DirectAnswer(ctx context.Context, utterance string, history []model.Message, knowledge, digest string) (string, error) {
	var buf bytes.Buffer
	if err := answerPromptTmpl.Execute(&buf, map[string]any{
		"Knowledge": knowledge,
		"HasDigest": digest != "",
		"Digest":    digest,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render answer prompt")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buf.String(), ""),
		Temperature:       ptrFloat32(1.0),
	}

	answer, err := p.generate(ctx, contents(history, utterance), config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate answer", goerr.V("utterance", utterance))
	}
	return answer, nil
}

// Summarize condenses the given text to 50 words or less
func (p *Planner) Summarize(ctx context.Context, text string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"You are a summarization expert. Produce a concise, informative summary of the provided text in 50 words or less.", ""),
		Temperature: ptrFloat32(0.7),
	}

	summary, err := p.generate(ctx, contents(nil, "Summarize the following text:\n\n"+text), config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate summary")
	}
	return summary, nil
}

// EmailBody drafts an email body for the subject in the requested formality
func (p *Planner) EmailBody(ctx context.Context, subject, formality string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			"Write a concise, well-formed "+formality+" email body for the given subject. Output only the body, without subject line, salutation, or closing.", ""),
		Temperature: ptrFloat32(0.7),
	}

	body, err := p.generate(ctx, contents(nil, "Subject: "+subject), config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate email body", goerr.V("subject", subject))
	}
	return body, nil
}
