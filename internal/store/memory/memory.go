// Package memory holds payment records in process memory. It backs the
// dev backend and handler tests; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"paytrack/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Payment
}

func New(seed ...core.Payment) *Store {
	s := &Store{}
	s.items = append(s.items, seed...)
	return s
}

// Load returns a copy of the records in insertion order.
func (s *Store) Load(_ context.Context) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Payment, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Append validates and stores the payment.
func (s *Store) Append(_ context.Context, p core.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
	return nil
}
