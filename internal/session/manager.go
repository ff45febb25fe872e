package session

import (
	"context"
	"errors"
)

// ErrNoProposal is returned by transitions that require a held proposal.
var ErrNoProposal = errors.New("no held proposal")

// Manager enforces the conversation transitions: idle → awaiting-input on
// an explicit begin request, a held proposal stays in awaiting-input until
// confirm/edit/cancel, edit moves to awaiting-correction, and confirm or
// cancel return the user to idle with the proposal discarded.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Begin starts (or restarts) the add-availability flow.
func (m *Manager) Begin(ctx context.Context, userID int64) error {
	return m.store.SetState(ctx, userID, StateAwaitingInput)
}

func (m *Manager) State(ctx context.Context, userID int64) (State, error) {
	return m.store.State(ctx, userID)
}

// Hold stores a freshly extracted proposal and settles the user back into
// awaiting-input, replacing any previous proposal.
func (m *Manager) Hold(ctx context.Context, userID int64, p Proposal) error {
	if err := m.store.SetProposal(ctx, userID, p); err != nil {
		return err
	}
	return m.store.SetState(ctx, userID, StateAwaitingInput)
}

func (m *Manager) HeldProposal(ctx context.Context, userID int64) (*Proposal, error) {
	return m.store.Proposal(ctx, userID)
}

// RequestCorrection moves a proposal-holding user to awaiting-correction so
// the next free-text message replaces the held proposal.
func (m *Manager) RequestCorrection(ctx context.Context, userID int64) error {
	p, err := m.store.Proposal(ctx, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNoProposal
	}
	return m.store.SetState(ctx, userID, StateAwaitingCorrection)
}

// Discard drops the held proposal and returns the user to idle. Used on
// cancel and after a successful confirm.
func (m *Manager) Discard(ctx context.Context, userID int64) error {
	if err := m.store.ClearProposal(ctx, userID); err != nil {
		return err
	}
	return m.store.ClearState(ctx, userID)
}

func (m *Manager) PendingClear(ctx context.Context, userID int64) (string, error) {
	return m.store.PendingClear(ctx, userID)
}

func (m *Manager) SetPendingClear(ctx context.Context, userID int64, yearMonth string) error {
	return m.store.SetPendingClear(ctx, userID, yearMonth)
}

func (m *Manager) DropPendingClear(ctx context.Context, userID int64) error {
	return m.store.DropPendingClear(ctx, userID)
}

// Authorized reports whether the acting identity matches the identity the
// original proposal-bearing interaction was addressed to. Mismatches must
// be rejected without touching any state.
func Authorized(actorID, ownerID int64) bool {
	return actorID == ownerID
}
