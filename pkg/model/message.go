package model

import "github.com/m-mizutani/goerr/v2"

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Validate checks if the role is valid
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return goerr.New("invalid message role", goerr.V("role", r))
	}
}

// Message is a single conversation entry. Immutable once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// InputMode selects how the orchestrator obtains user input
type InputMode string

const (
	InputModeVoice InputMode = "voice"
	InputModeText  InputMode = "text"
)

// Validate checks if the input mode is valid
func (m InputMode) Validate() error {
	switch m {
	case InputModeVoice, InputModeText:
		return nil
	default:
		return goerr.New("invalid input mode", goerr.V("mode", m))
	}
}

// Toggle returns the other input mode
func (m InputMode) Toggle() InputMode {
	if m == InputModeVoice {
		return InputModeText
	}
	return InputModeVoice
}

// CommandResult is the structured record returned by sub-command execution
type CommandResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error"`
}
