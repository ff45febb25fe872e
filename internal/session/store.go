package session

import (
	"context"
	"sync"
)

// Store holds per-user transient conversation data keyed by the platform
// user id. Records have no expiry; they live until the state machine clears
// them. Implementations must be safe for concurrent use.
type Store interface {
	State(ctx context.Context, userID int64) (State, error)
	SetState(ctx context.Context, userID int64, s State) error
	ClearState(ctx context.Context, userID int64) error

	Proposal(ctx context.Context, userID int64) (*Proposal, error)
	SetProposal(ctx context.Context, userID int64, p Proposal) error
	ClearProposal(ctx context.Context, userID int64) error

	PendingClear(ctx context.Context, userID int64) (string, error)
	SetPendingClear(ctx context.Context, userID int64, yearMonth string) error
	DropPendingClear(ctx context.Context, userID int64) error
}

// MemoryStore is the single-instance Store. Suitable for one bot process;
// deployments running several instances use the Redis store instead.
type MemoryStore struct {
	mu        sync.Mutex
	states    map[int64]State
	proposals map[int64]Proposal
	clears    map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:    make(map[int64]State),
		proposals: make(map[int64]Proposal),
		clears:    make(map[int64]string),
	}
}

func (s *MemoryStore) State(_ context.Context, userID int64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[userID]; ok {
		return st, nil
	}
	return StateIdle, nil
}

func (s *MemoryStore) SetState(_ context.Context, userID int64, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = st
	return nil
}

func (s *MemoryStore) ClearState(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

func (s *MemoryStore) Proposal(_ context.Context, userID int64) (*Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.proposals[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *MemoryStore) SetProposal(_ context.Context, userID int64, p Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[userID] = p
	return nil
}

func (s *MemoryStore) ClearProposal(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.proposals, userID)
	return nil
}

func (s *MemoryStore) PendingClear(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears[userID], nil
}

func (s *MemoryStore) SetPendingClear(_ context.Context, userID int64, yearMonth string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears[userID] = yearMonth
	return nil
}

func (s *MemoryStore) DropPendingClear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clears, userID)
	return nil
}
