package assistant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/butler/pkg/adapter"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/task"
	"github.com/m-mizutani/butler/pkg/utils/logging"
)

// dispatchState labels the phases of a single command's lifecycle
type dispatchState string

const (
	stateAwaitingPlan dispatchState = "awaiting_plan"
	stateResolving    dispatchState = "resolving"
	stateClarifying   dispatchState = "clarifying"
	stateInvoking     dispatchState = "invoking"
	stateResponding   dispatchState = "responding"
	stateShuttingDown dispatchState = "shutting_down"
)

func (a *Assistant) transition(ctx context.Context, from, to dispatchState) dispatchState {
	logging.From(ctx).Debug("dispatch transition", "from", from, "to", to)
	return to
}

// dispatch routes one acquired plan to its executor. The returned flag
// reports the exit intent; the error is non-nil only when the input
// channel itself died mid-dialogue.
func (a *Assistant) dispatch(ctx context.Context, plan *model.ActionPlan, utterance string) (bool, error) {
	st := a.transition(ctx, stateAwaitingPlan, stateResolving)

	switch plan.Action {
	case model.ActionExit:
		a.transition(ctx, st, stateShuttingDown)
		a.respond(ctx, "Goodbye. Shutting down.")
		return true, nil

	case model.ActionDirectAnswer:
		st = a.transition(ctx, st, stateInvoking)
		answer, err := a.planner.DirectAnswer(ctx, utterance, a.session.Snapshot(), a.knowledge(ctx), "")
		a.transition(ctx, st, stateResponding)
		if err != nil {
			logging.From(ctx).Warn("direct answer failed", "error", err)
			a.respond(ctx, "I'm sorry, I couldn't form an answer to that just now.")
			return false, nil
		}
		a.respond(ctx, answer)
		return false, nil

	case model.ActionSearchAndAnswer:
		a.transition(ctx, st, stateInvoking)
		a.searchAndAnswer(ctx, plan, utterance)
		return false, nil

	case model.ActionExecuteCmd:
		a.transition(ctx, st, stateInvoking)
		description := plan.Entity(model.EntityCommandDescription)
		if description == "" {
			description = utterance
		}
		a.executeCommand(ctx, description)
		return false, nil

	case model.ActionRememberFact:
		return false, a.handleRememberFact(ctx, plan)

	case model.ActionSetReminder:
		return false, a.handleSetReminder(ctx, plan, utterance)
	case model.ActionListReminders:
		a.handleListReminders(ctx)
		return false, nil
	case model.ActionDeleteReminder:
		return false, a.handleDeleteReminder(ctx, plan)
	case model.ActionDeleteAllReminders:
		a.handleDeleteAllReminders(ctx)
		return false, nil

	case model.ActionSetAlarm:
		return false, a.handleSetAlarm(ctx, plan)
	case model.ActionListAlarms:
		a.handleListAlarms(ctx)
		return false, nil
	case model.ActionDeleteAllAlarms:
		a.handleDeleteAllAlarms(ctx)
		return false, nil

	case model.ActionSummarizeFile:
		return false, a.handleSummarizeFile(ctx, st, plan)

	case model.ActionSetLanguage, model.ActionToggleInputLanguage, model.ActionSetAllLanguage:
		a.handleLanguage(ctx, plan)
		return false, nil

	default:
		return a.invokeHandler(ctx, st, plan, utterance)
	}
}

// invokeHandler drives a registered task handler through the
// clarify-invoke-respond phases.
func (a *Assistant) invokeHandler(ctx context.Context, st dispatchState, plan *model.ActionPlan, utterance string) (bool, error) {
	logger := logging.From(ctx)

	handler, err := a.registry.Lookup(plan.Action)
	if err != nil {
		if !errors.Is(err, task.ErrHandlerNotFound) {
			logger.Error("handler lookup failed", "action", plan.Action, "error", err)
		}
		logger.Warn("no handler for action", "action", plan.Action)
		a.respond(ctx, fmt.Sprintf("I understood the request as %q, but I don't have that capability on this system.", string(plan.Action)))
		return false, nil
	}

	if plan.Action == model.ActionSendEmail {
		if err := a.resolveEmailEntities(ctx, st, plan); err != nil {
			return false, a.abortClarification(ctx, err)
		}
	} else if err := a.resolveEntities(ctx, st, plan, handler.Required()); err != nil {
		return false, a.abortClarification(ctx, err)
	}

	st = a.transition(ctx, st, stateInvoking)
	result, err := handler.Execute(ctx, plan.Entities)
	a.transition(ctx, st, stateResponding)
	if err != nil {
		logger.Warn("handler failed", "action", plan.Action, "error", err)
		a.respond(ctx, a.planner.FailureMessage(ctx, utterance, err.Error()))
		return false, nil
	}
	if result == "" {
		result = a.planner.SuccessMessage(ctx, utterance)
	}
	a.respond(ctx, result)
	return false, nil
}

// resolveEntities fills the handler's required entities through
// clarification sub-dialogues.
func (a *Assistant) resolveEntities(ctx context.Context, st dispatchState, plan *model.ActionPlan, required []string) error {
	for _, name := range required {
		if plan.Entity(name) != "" {
			continue
		}
		a.transition(ctx, st, stateClarifying)
		reply, err := a.ask(ctx, clarifyPrompt(plan.Action, name))
		if err != nil {
			return err
		}
		plan.Entities[name] = reply
	}
	return nil
}

// abortClarification converts a failed clarification into a graceful
// spoken abandonment. Input-channel failures still propagate.
func (a *Assistant) abortClarification(ctx context.Context, err error) error {
	if errors.Is(err, adapter.ErrInputClosed) {
		return err
	}
	logging.From(ctx).Warn("clarification abandoned", "error", err)
	a.respond(ctx, "I wasn't able to get the details I needed, so I'll set that request aside. Ask me again any time.")
	return nil
}

func (a *Assistant) handleRememberFact(ctx context.Context, plan *model.ActionPlan) error {
	fact := plan.Entity("fact")
	if fact == "" {
		reply, err := a.ask(ctx, "Of course. What would you like me to remember?")
		if err != nil {
			return a.abortClarification(ctx, err)
		}
		fact = reply
	}
	if err := a.repo.AppendFact(ctx, fact); err != nil {
		logging.From(ctx).Error("failed to persist fact", "error", err)
		a.respond(ctx, "I'm sorry, I couldn't commit that to memory.")
		return nil
	}
	a.respond(ctx, "Noted. I'll remember that.")
	return nil
}

// handleSummarizeFile reads a local text file and speaks a condensed
// version of its contents.
func (a *Assistant) handleSummarizeFile(ctx context.Context, st dispatchState, plan *model.ActionPlan) error {
	logger := logging.From(ctx)

	path := strings.TrimSpace(plan.Entity("file_path"))
	if path == "" {
		a.transition(ctx, st, stateClarifying)
		reply, err := a.ask(ctx, clarifyPrompt(model.ActionSummarizeFile, "file_path"))
		if err != nil {
			return a.abortClarification(ctx, err)
		}
		path = strings.TrimSpace(reply)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read file for summary", "path", path, "error", err)
		a.respond(ctx, fmt.Sprintf("I'm sorry, I couldn't read the file at %q.", path))
		return nil
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		a.respond(ctx, "That file is empty, so there's nothing to summarize.")
		return nil
	}

	summary, err := a.planner.Summarize(ctx, string(raw))
	if err != nil {
		logger.Warn("summarization failed", "path", path, "error", err)
		a.respond(ctx, "I read the file, but I couldn't put a summary together.")
		return nil
	}
	a.respond(ctx, summary)
	return nil
}

func (a *Assistant) handleLanguage(ctx context.Context, plan *model.ActionPlan) {
	logger := logging.From(ctx)
	switch plan.Action {
	case model.ActionSetLanguage:
		lang := normalizeLang(plan.Entity("language_code"))
		a.outputLang = lang
		logger.Info("output language changed", "language", lang)
		a.respond(ctx, fmt.Sprintf("Understood. I'll speak in %s from now on.", langName(lang)))
	case model.ActionToggleInputLanguage:
		if a.inputLang == "en" {
			a.inputLang = "bn"
		} else {
			a.inputLang = "en"
		}
		logger.Info("input language toggled", "language", a.inputLang)
		a.respond(ctx, fmt.Sprintf("Input language switched to %s.", langName(a.inputLang)))
	case model.ActionSetAllLanguage:
		lang := normalizeLang(plan.Entity("target_language"))
		a.outputLang = lang
		a.inputLang = lang
		logger.Info("all languages changed", "language", lang)
		a.respond(ctx, fmt.Sprintf("Understood. Listening and speaking in %s now.", langName(lang)))
	}
}

func normalizeLang(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bn", "bangla", "bengali":
		return "bn"
	default:
		return "en"
	}
}

func langName(code string) string {
	if code == "bn" {
		return "Bangla"
	}
	return "English"
}
