package assistant

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

var (
	// ErrClarificationUnresolvable reports a clarification sub-dialogue
	// that ran out of retries without a usable reply.
	ErrClarificationUnresolvable = goerr.New("clarification unresolvable")

	// ErrHandlerFailure reports a task handler that returned an error
	ErrHandlerFailure = goerr.New("handler failure")
)

const (
	apologyPlannerUnavailable = "Sir, my connection to my higher consciousness is temporarily unavailable. I will proceed with a basic command execution protocol."
	apologyPlanMalformed      = "My apologies, sir. My thought process was corrupted for a moment. I will attempt a basic execution."
)

// acquirePlan asks the oracle for an action plan and never fails: any
// planning error is spoken as an apology and degrades into the universal
// fallback plan, so a single command is always dispatched.
func (a *Assistant) acquirePlan(ctx context.Context, utterance string, history []model.Message) *model.ActionPlan {
	logger := logging.From(ctx)

	plan, err := a.planner.CreatePlan(ctx, utterance, history, a.knowledge(ctx))
	if err == nil {
		logger.Debug("plan acquired", "action", plan.Action, "entities", plan.Entities)
		return plan
	}

	if errors.Is(err, model.ErrPlanMalformed) {
		logger.Warn("plan malformed, degrading to fallback", "error", err)
		a.say(ctx, apologyPlanMalformed)
	} else {
		logger.Warn("planner unavailable, degrading to fallback", "error", err)
		a.say(ctx, apologyPlannerUnavailable)
	}

	return model.FallbackPlan(utterance)
}
