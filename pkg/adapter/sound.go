package adapter

import (
	"context"
	"os/exec"

	"github.com/m-mizutani/goerr/v2"
)

// Sound plays an alarm sound file. Playback is a side effect of the alarm
// poller; a failure to play never blocks marking the alarm triggered.
type Sound interface {
	Play(ctx context.Context, path string) error
}

// ExecSound shells out to ffplay for playback
type ExecSound struct{}

func NewExecSound() *ExecSound {
	return &ExecSound{}
}

func (s *ExecSound) Play(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", path)
	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "failed to play sound", goerr.V("path", path))
	}
	return nil
}

// NopSound discards playback requests. Used when no audio device exists.
type NopSound struct{}

func (NopSound) Play(ctx context.Context, path string) error {
	return nil
}
