package adapter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

// ErrInputClosed indicates the input device is gone for good. The
// orchestrator treats this as a signal to shut down gracefully.
var ErrInputClosed = goerr.New("input channel closed")

// Voice is the speech boundary. Actual text-to-speech and speech-to-text
// transduction live outside this module; implementations adapt whatever
// transducer is available.
type Voice interface {
	// Say emits one utterance. Delivery is best-effort, not exactly-once.
	Say(ctx context.Context, text string) error

	// Listen blocks until one utterance is available in the given input
	// mode, or returns ErrInputClosed when the device is unavailable.
	Listen(ctx context.Context, mode model.InputMode) (string, error)
}

// Console is a Voice that prints utterances and reads typed input. It
// stands in for the speech transducers during development and tests.
type Console struct {
	rl  *readline.Instance
	out io.Writer
}

func NewConsole(out io.Writer) (*Console, error) {
	rl, err := readline.New("> ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize readline")
	}
	return &Console{rl: rl, out: out}, nil
}

func (c *Console) Say(ctx context.Context, text string) error {
	if _, err := fmt.Fprintln(c.out, text); err != nil {
		return goerr.Wrap(err, "failed to write utterance")
	}
	return nil
}

func (c *Console) Listen(ctx context.Context, mode model.InputMode) (string, error) {
	switch mode {
	case model.InputModeVoice:
		c.rl.SetPrompt("[voice] ")
	default:
		c.rl.SetPrompt("[text] ")
	}

	for {
		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", goerr.Wrap(ErrInputClosed, "console input ended")
		}
		if err != nil {
			return "", goerr.Wrap(err, "failed to read input")
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
	}
}

func (c *Console) Close() error {
	return c.rl.Close()
}
