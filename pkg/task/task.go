package task

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

var ErrHandlerNotFound = goerr.New("handler not found")

// Handler is a task capability the dispatcher can invoke for one intent.
// Execute receives the resolved entity mapping and returns the spoken
// result. Handlers are fallible I/O: any error is classified by the
// dispatcher and never crashes the loop.
type Handler interface {
	// Intent names the action this handler serves
	Intent() model.Action

	// Required lists entity names that must be present before Execute.
	// Missing entries trigger a clarification sub-dialogue.
	Required() []string

	// Execute performs the task with the resolved entities
	Execute(ctx context.Context, entities map[string]string) (string, error)
}

// Registry maps intent names to handler capabilities
type Registry struct {
	handlers map[model.Action]Handler
}

// New creates a registry from the given handlers. A later handler for the
// same intent replaces an earlier one.
func New(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[model.Action]Handler)}
	for _, h := range handlers {
		r.handlers[h.Intent()] = h
	}
	return r
}

// Register adds a handler after construction
func (r *Registry) Register(h Handler) {
	r.handlers[h.Intent()] = h
}

// Lookup returns the handler for the action
func (r *Registry) Lookup(action model.Action) (Handler, error) {
	h, ok := r.handlers[action]
	if !ok {
		return nil, goerr.Wrap(ErrHandlerNotFound, "no handler for intent", goerr.V("action", action))
	}
	return h, nil
}

// Handlers returns all registered handlers
func (r *Registry) Handlers() []Handler {
	out := make([]Handler, 0, len(r.handlers))
	for _, h := range r.handlers {
		out = append(out, h)
	}
	return out
}
