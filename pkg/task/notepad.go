package task

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

// NotepadHandler appends dictated notes to a plain text file
type NotepadHandler struct {
	path string
	now  func() time.Time
}

func NewNotepadHandler(path string, now func() time.Time) *NotepadHandler {
	if now == nil {
		now = time.Now
	}
	return &NotepadHandler{path: path, now: now}
}

func (h *NotepadHandler) Intent() model.Action { return model.ActionWriteNotepad }

func (h *NotepadHandler) Required() []string { return []string{"content"} }

func (h *NotepadHandler) Execute(ctx context.Context, entities map[string]string) (string, error) {
	content := entities["content"]
	if content == "" {
		return "", goerr.New("notepad content is empty")
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create notepad directory", goerr.V("path", h.path))
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open notepad", goerr.V("path", h.path))
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", h.now().Format("2006-01-02 15:04"), content)
	if _, err := f.WriteString(line); err != nil {
		return "", goerr.Wrap(err, "failed to write note", goerr.V("path", h.path))
	}

	return "I've written that down in your notepad.", nil
}
