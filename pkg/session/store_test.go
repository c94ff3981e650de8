package session_test

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/session"
)

func TestAppendAndSnapshot(t *testing.T) {
	store, err := session.New(t.TempDir())
	gt.NoError(t, err)

	gt.NoError(t, store.Append(model.RoleUser, "what time is it"))
	gt.NoError(t, store.Append(model.RoleAssistant, "9:15 AM"))

	snapshot := store.Snapshot()
	gt.A(t, snapshot).Length(2)
	gt.Equal(t, snapshot[0], model.Message{Role: model.RoleUser, Content: "what time is it"})
	gt.Equal(t, snapshot[1], model.Message{Role: model.RoleAssistant, Content: "9:15 AM"})
}

func TestAppendRejectsInvalidRole(t *testing.T) {
	store, err := session.New(t.TempDir())
	gt.NoError(t, err)

	gt.Error(t, store.Append(model.Role("narrator"), "meanwhile")).Required()
	gt.Equal(t, store.Len(), 0)
}

func TestBoundEviction(t *testing.T) {
	store, err := session.New(t.TempDir())
	gt.NoError(t, err)

	total := session.DefaultBound + 7
	for i := 0; i < total; i++ {
		gt.NoError(t, store.Append(model.RoleUser, fmt.Sprintf("message %d", i)))
	}

	snapshot := store.Snapshot()
	gt.A(t, snapshot).Length(session.DefaultBound)

	// the oldest 7 are gone and order is preserved
	gt.Equal(t, snapshot[0].Content, "message 7")
	gt.Equal(t, snapshot[len(snapshot)-1].Content, fmt.Sprintf("message %d", total-1))
}

func TestPersistedArtifactMatchesContext(t *testing.T) {
	store, err := session.New(t.TempDir(), session.WithBound(3))
	gt.NoError(t, err)

	for _, msg := range []string{"one", "two", "three", "four"} {
		gt.NoError(t, store.Append(model.RoleUser, msg))
	}

	f, err := os.Open(store.Path())
	gt.NoError(t, err)
	defer f.Close()

	var persisted []model.Message
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var msg model.Message
		gt.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		persisted = append(persisted, msg)
	}
	gt.NoError(t, scanner.Err())

	gt.Equal(t, persisted, store.Snapshot())
	gt.A(t, persisted).Length(3)
	gt.Equal(t, persisted[0].Content, "two")
}

func TestClearIsIdempotent(t *testing.T) {
	store, err := session.New(t.TempDir())
	gt.NoError(t, err)

	gt.NoError(t, store.Append(model.RoleUser, "hello"))

	gt.NoError(t, store.Clear())
	gt.Equal(t, store.Len(), 0)

	_, statErr := os.Stat(store.Path())
	gt.True(t, os.IsNotExist(statErr))

	// clearing again must not fail
	gt.NoError(t, store.Clear())
}
