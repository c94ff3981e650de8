package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/adapter"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// clarifyPrompts maps intent+entity to the question spoken when the
// planner left that entity out.
var clarifyPrompts = map[model.Action]map[string]string{
	model.ActionGetImage: {
		"image_query": "Of course. What image would you like me to find?",
	},
	model.ActionGenerateQRCode: {
		"data": "Of course. What text or link should I encode in the QR code?",
	},
	model.ActionWriteNotepad: {
		"content": "Of course. What should I write down?",
	},
	model.ActionSummarizeFile: {
		"file_path": "Certainly. What is the path of the text file you'd like summarized?",
	},
	model.ActionGetStockPrice: {
		"symbol": "Which stock symbol should I look up?",
	},
	model.ActionSendEmail: {
		"recipient": "Whom should I send the email to?",
		"subject":   "What should the subject line be?",
		"body":      "Please tell me the body of the email.",
	},
}

func clarifyPrompt(action model.Action, entity string) string {
	if prompts, ok := clarifyPrompts[action]; ok {
		if prompt, ok := prompts[entity]; ok {
			return prompt
		}
	}
	return fmt.Sprintf("I need one more detail: what should I use for %s?", strings.ReplaceAll(entity, "_", " "))
}

// ask runs one clarification exchange. The question and the eventual reply
// both become part of the dialogue context; the retry bound keeps a silent
// or failing input channel from trapping the dispatcher here forever.
func (a *Assistant) ask(ctx context.Context, prompt string) (string, error) {
	logger := logging.From(ctx)

	a.say(ctx, prompt)
	if err := a.session.Append(model.RoleAssistant, prompt); err != nil {
		logger.Warn("failed to append clarification prompt", "error", err)
	}

	for attempt := 1; attempt <= a.config.ClarifyRetries; attempt++ {
		reply, err := a.voice.Listen(ctx, a.modes.Current())
		if err != nil {
			if errors.Is(err, adapter.ErrInputClosed) {
				return "", err
			}
			logger.Warn("clarification read failed", "attempt", attempt, "error", err)
			continue
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			continue
		}
		if err := a.session.Append(model.RoleUser, reply); err != nil {
			logger.Warn("failed to append clarification reply", "error", err)
		}
		return reply, nil
	}

	return "", goerr.Wrap(ErrClarificationUnresolvable, "no usable reply", goerr.V("prompt", prompt), goerr.V("retries", a.config.ClarifyRetries))
}

// resolveEmailEntities fills in recipient, subject and body for an email.
// The body has its own branch: the user may dictate it or delegate the
// drafting, in which case a formality preference shapes the generated text.
func (a *Assistant) resolveEmailEntities(ctx context.Context, st dispatchState, plan *model.ActionPlan) error {
	if plan.Entity("recipient") == "" {
		a.transition(ctx, st, stateClarifying)
		reply, err := a.ask(ctx, clarifyPrompt(model.ActionSendEmail, "recipient"))
		if err != nil {
			return err
		}
		plan.Entities["recipient"] = reply
	}

	if plan.Entity("subject") == "" {
		a.transition(ctx, st, stateClarifying)
		reply, err := a.ask(ctx, clarifyPrompt(model.ActionSendEmail, "subject"))
		if err != nil {
			return err
		}
		plan.Entities["subject"] = reply
	}

	if plan.Entity("body") != "" {
		return nil
	}

	a.transition(ctx, st, stateClarifying)
	choice, err := a.ask(ctx, "Should I write the body for you, or would you like to dictate it yourself?")
	if err != nil {
		return err
	}

	if wantsGenerated(choice) {
		formality, err := a.ask(ctx, "Should the tone be formal or informal?")
		if err != nil {
			return err
		}
		body, err := a.planner.EmailBody(ctx, plan.Entity("subject"), formality)
		if err != nil {
			logging.From(ctx).Warn("email body generation failed, asking for dictation", "error", err)
			body, err = a.ask(ctx, "I couldn't draft that myself. Please dictate the body of the email.")
			if err != nil {
				return err
			}
		}
		plan.Entities["body"] = body
		return nil
	}

	body, err := a.ask(ctx, clarifyPrompt(model.ActionSendEmail, "body"))
	if err != nil {
		return err
	}
	plan.Entities["body"] = body
	return nil
}

func wantsGenerated(choice string) bool {
	lower := strings.ToLower(choice)
	return strings.Contains(lower, "generate") || strings.Contains(lower, "write") || strings.Contains(lower, "draft") ||
		strings.Contains(lower, "you do") || strings.Contains(lower, "yes")
}
