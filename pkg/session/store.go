package session

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

// DefaultBound is the maximum number of messages kept in context
const DefaultBound = 50

// Store is the bounded conversational context for one session. Appends are
// O(1) amortized; after every append the oldest entries are evicted until
// the bound holds, and the whole artifact is rewritten synchronously so the
// next process start can observe the conversation. The store is owned by a
// single session and its artifact is erased at session end.
type Store struct {
	mu       sync.Mutex
	path     string
	bound    int
	messages []model.Message
}

type Option func(*Store)

// WithBound overrides the maximum context length
func WithBound(n int) Option {
	return func(s *Store) {
		s.bound = n
	}
}

// New creates a fresh session store under dir. Any artifact left over from
// a previous session with the same path is discarded.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create session directory", goerr.V("dir", dir))
	}

	s := &Store{
		path:  filepath.Join(dir, "session_"+uuid.New().String()+".jsonl"),
		bound: DefaultBound,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return nil, goerr.Wrap(err, "failed to discard stale session artifact", goerr.V("path", s.path))
	}

	return s, nil
}

// Append adds one message and synchronously persists the trimmed context
func (s *Store) Append(role model.Role, content string) error {
	if err := role.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, model.Message{Role: role, Content: content})
	if len(s.messages) > s.bound {
		s.messages = s.messages[len(s.messages)-s.bound:]
	}

	return s.persist()
}

// Snapshot returns the messages in insertion order. The returned slice is a
// copy; callers never see later mutations.
func (s *Store) Snapshot() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the current number of messages
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear erases the in-memory context and deletes the durable artifact.
// Calling it when no artifact exists is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to delete session artifact", goerr.V("path", s.path))
	}
	return nil
}

// Path returns the durable artifact location
func (s *Store) Path() string {
	return s.path
}

func (s *Store) persist() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, msg := range s.messages {
		if err := enc.Encode(msg); err != nil {
			return goerr.Wrap(err, "failed to encode session message")
		}
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return goerr.Wrap(err, "failed to persist session context", goerr.V("path", s.path))
	}
	return nil
}
