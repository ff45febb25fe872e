package session

import (
	"context"
	"errors"
	"testing"

	"github.com/petsos-dev/availability/internal/domain"
)

func testProposal() Proposal {
	return Proposal{
		Slots: []domain.Slot{
			{Date: "2025-06-02", StartTime: "10:00", EndTime: "13:00", Type: domain.TypeURGENT},
		},
		Source:     "завтра з 10 до 13",
		SourceType: SourceText,
	}
}

func TestManager_DefaultIdle(t *testing.T) {
	m := NewManager(NewMemoryStore())
	st, err := m.State(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if st != StateIdle {
		t.Errorf("fresh user state = %s, want idle", st)
	}
}

func TestManager_BeginHoldConfirmCycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())
	const user = int64(42)

	if err := m.Begin(ctx, user); err != nil {
		t.Fatal(err)
	}
	if st, _ := m.State(ctx, user); st != StateAwaitingInput {
		t.Fatalf("after Begin state = %s", st)
	}

	if err := m.Hold(ctx, user, testProposal()); err != nil {
		t.Fatal(err)
	}
	if st, _ := m.State(ctx, user); st != StateAwaitingInput {
		t.Fatalf("holding a proposal keeps awaiting-input, got %s", st)
	}
	p, err := m.HeldProposal(ctx, user)
	if err != nil || p == nil {
		t.Fatalf("expected held proposal, got %v err=%v", p, err)
	}

	// Confirm path: proposal discarded, state back to idle.
	if err := m.Discard(ctx, user); err != nil {
		t.Fatal(err)
	}
	if p, _ := m.HeldProposal(ctx, user); p != nil {
		t.Error("proposal should be gone after discard")
	}
	if st, _ := m.State(ctx, user); st != StateIdle {
		t.Errorf("after discard state = %s, want idle", st)
	}
}

func TestManager_CorrectionFlow(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())
	const user = int64(7)

	if err := m.RequestCorrection(ctx, user); !errors.Is(err, ErrNoProposal) {
		t.Fatalf("correction without proposal should fail, got %v", err)
	}

	_ = m.Begin(ctx, user)
	_ = m.Hold(ctx, user, testProposal())

	if err := m.RequestCorrection(ctx, user); err != nil {
		t.Fatal(err)
	}
	if st, _ := m.State(ctx, user); st != StateAwaitingCorrection {
		t.Fatalf("state = %s, want awaiting-correction", st)
	}

	// Re-extraction replaces the proposal and returns to awaiting-input.
	replacement := testProposal()
	replacement.Source = "у понеділок з 14 до 18 ВП"
	if err := m.Hold(ctx, user, replacement); err != nil {
		t.Fatal(err)
	}
	if st, _ := m.State(ctx, user); st != StateAwaitingInput {
		t.Fatalf("after re-hold state = %s", st)
	}
	p, _ := m.HeldProposal(ctx, user)
	if p == nil || p.Source != replacement.Source {
		t.Error("new proposal should replace the old one")
	}
}

func TestManager_PendingClear(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())
	const user = int64(9)

	if ym, _ := m.PendingClear(ctx, user); ym != "" {
		t.Fatalf("unexpected pending clear %q", ym)
	}
	if err := m.SetPendingClear(ctx, user, "2025-06"); err != nil {
		t.Fatal(err)
	}
	if ym, _ := m.PendingClear(ctx, user); ym != "2025-06" {
		t.Fatalf("pending clear = %q", ym)
	}
	if err := m.DropPendingClear(ctx, user); err != nil {
		t.Fatal(err)
	}
	if ym, _ := m.PendingClear(ctx, user); ym != "" {
		t.Fatalf("pending clear should be dropped, got %q", ym)
	}
}

func TestAuthorized(t *testing.T) {
	if !Authorized(42, 42) {
		t.Error("same identity must be authorized")
	}
	if Authorized(42, 43) {
		t.Error("different identity must be rejected")
	}
}

func TestManager_UsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	_ = m.Begin(ctx, 1)
	_ = m.Hold(ctx, 1, testProposal())

	if st, _ := m.State(ctx, 2); st != StateIdle {
		t.Errorf("user 2 state = %s, want idle", st)
	}
	if p, _ := m.HeldProposal(ctx, 2); p != nil {
		t.Error("user 2 must not see user 1's proposal")
	}
}
