package session

import "github.com/petsos-dev/availability/internal/domain"

// State tracks where a user is in the add-availability conversation. The
// zero value of a missing record is StateIdle.
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingInput      State = "awaiting-input"
	StateAwaitingCorrection State = "awaiting-correction"
)

// SourceType tags how the proposal's source text arrived.
type SourceType string

const (
	SourceText  SourceType = "text"
	SourceVoice SourceType = "voice"
)

// Proposal is a held, unconfirmed batch of extracted slots together with
// the text that produced it. It lives only until confirm, cancel, or
// replacement by a newer proposal.
type Proposal struct {
	Slots      []domain.Slot `json:"slots"`
	Source     string        `json:"source"`
	SourceType SourceType    `json:"sourceType"`
}
