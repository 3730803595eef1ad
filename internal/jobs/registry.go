package jobs

import (
	"context"
	"fmt"
	"sync"
)

// Handler executes one job kind.
type Handler interface {
	Kind() string
	Run(ctx context.Context, payload []byte) error
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler")
	}
	k := h.Kind()
	if k == "" {
		return fmt.Errorf("handler Kind() is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[k]; exists {
		return fmt.Errorf("handler already registered for job_kind=%s", k)
	}
	r.handlers[k] = h
	return nil
}

func (r *Registry) Get(kind string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

// Dispatch runs the job through its registered handler.
func (r *Registry) Dispatch(ctx context.Context, job Job) error {
	h, ok := r.Get(job.Kind)
	if !ok {
		return fmt.Errorf("no handler registered for job_kind=%s", job.Kind)
	}
	return h.Run(ctx, job.Payload)
}
