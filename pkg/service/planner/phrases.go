package planner

import (
	"context"
	"fmt"

	"github.com/m-mizutani/butler/pkg/model"
	"google.golang.org/genai"
)

// Phrase generation never fails upward: when the oracle is unavailable the
// static fallback is spoken instead. Only the plan-producing calls carry
// failure semantics.

func (p *Planner) phrase(ctx context.Context, system, request, fallback string, temperature float32) string {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, ""),
		Temperature:       ptrFloat32(temperature),
	}

	text, err := p.generate(ctx, contents(nil, request), config)
	if err != nil {
		return fallback
	}
	return text
}

// Acknowledge produces the immediate spoken acknowledgment that precedes
// command execution.
func (p *Planner) Acknowledge(ctx context.Context, description string) string {
	return p.phrase(ctx,
		"You are a personal assistant. Acknowledge the user's system action request concisely and confidently, in one short sentence.",
		fmt.Sprintf("Acknowledge you are about to do this: %q.", description),
		fmt.Sprintf("Okay, I'll try to %s.", description),
		0.8)
}

// SuccessMessage confirms a completed command
func (p *Planner) SuccessMessage(ctx context.Context, description string) string {
	return p.phrase(ctx,
		"You are a personal assistant. Confirm the user's system command completed successfully. Be positive and brief.",
		fmt.Sprintf("Generate a success message for completing: %q.", description),
		fmt.Sprintf("Task %q completed.", description),
		0.8)
}

// FailureMessage explains a failed command in plain language
func (p *Planner) FailureMessage(ctx context.Context, description, errMsg string) string {
	return p.phrase(ctx,
		"You are a personal assistant. A command failed. Interpret the technical error and explain it politely in one or two sentences. If the command was not found, the application is likely not installed.",
		fmt.Sprintf("Explain why the task %q failed with this error: %q.", description, errMsg),
		fmt.Sprintf("The task %q failed: %s", description, errMsg),
		0.7)
}

// AnswerFromOutput turns raw command output into a spoken answer
func (p *Planner) AnswerFromOutput(ctx context.Context, question, output string) string {
	return p.phrase(ctx,
		"A user asked a question, a command was run, and you have the raw text output. Formulate a polite, direct spoken answer to the original question. Summarize lists cleanly; present single values clearly.",
		fmt.Sprintf("User question: %q\nCommand output: %q", question, output),
		fmt.Sprintf("The result is: %s", output),
		0.7)
}

// ReminderConfirmation confirms a newly set reminder
func (p *Planner) ReminderConfirmation(ctx context.Context, task, when string) string {
	return p.phrase(ctx,
		"You are a personal assistant. Confirm a reminder has been set. Be professional, concise, and natural. Include the task and the time.",
		fmt.Sprintf("Confirm reminder: task=%q, time=%q", task, when),
		fmt.Sprintf("I've set a reminder to %s for %s.", task, when),
		0.7)
}

// DueReminderAnnouncement announces a reminder whose time has arrived
func (p *Planner) DueReminderAnnouncement(ctx context.Context, reminder *model.Reminder) string {
	return p.phrase(ctx,
		"You are a personal assistant. Announce a due reminder in one engaging, natural sentence. Do not just repeat the raw details.",
		fmt.Sprintf("You have a reminder to %s. It was set for %s.", reminder.Task, reminder.ScheduledAt),
		fmt.Sprintf("Reminder: %s at %s.", reminder.Task, reminder.ScheduledAt),
		0.8)
}
