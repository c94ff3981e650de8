package assistant

import (
	"context"
	"strings"

	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// executeCommand runs the two-phase shell protocol: acknowledge first,
// then translate the description into an ordered sub-command sequence and
// run it with short-circuit semantics. The first failing sub-command stops
// the run and shapes the failure explanation.
func (a *Assistant) executeCommand(ctx context.Context, description string) {
	logger := logging.From(ctx)

	// acknowledgment is spoken up front; the recorded assistant turn is
	// the final outcome below
	a.say(ctx, a.planner.Acknowledge(ctx, description))

	if a.shell == nil {
		a.respond(ctx, "I'm sorry, shell execution is unavailable on this system.")
		return
	}

	plan, err := a.planner.CreateCommandPlan(ctx, description)
	if err != nil {
		logger.Warn("command planning failed", "description", description, "error", err)
		a.respond(ctx, "I'm sorry, I couldn't devise a command for that request.")
		return
	}

	sequence := plan.Sequence()
	if len(sequence) == 0 {
		a.respond(ctx, "I'm sorry, I couldn't devise a command for that request.")
		return
	}

	var last *model.CommandResult
	for _, cmd := range sequence {
		logger.Debug("running sub-command", "command", cmd)
		last = a.shell.Run(ctx, cmd)
		if !last.Success {
			logger.Warn("sub-command failed, halting sequence", "command", cmd, "error", last.Error)
			break
		}
	}

	if !last.Success {
		a.respond(ctx, a.planner.FailureMessage(ctx, description, last.Error))
		return
	}

	// only the final sub-command's output feeds the answer path; a silent
	// final command falls back to the generic success message
	if out := strings.TrimSpace(last.Output); plan.OutputType == "answer" && out != "" {
		a.respond(ctx, a.planner.AnswerFromOutput(ctx, description, out))
		return
	}
	a.respond(ctx, a.planner.SuccessMessage(ctx, description))
}
