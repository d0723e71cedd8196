// internal/game/types.go
//
// Core type definitions for the memory-pairs game engine.
// Defines:
//   - Card: one board position with its pair identity and matched latch.
//   - State: coarse session state (active/finished).
//   - Outcome: the verdict of an accepted flip.
//   - FlipResult: what a flip returns to the caller.

package game

// State is the coarse lifecycle state of a session.
type State string

const (
	StateActive   State = "active"
	StateFinished State = "finished"
)

// Outcome classifies an accepted flip.
// Possible values:
//   - "revealed":   first card of an attempt is now held face up.
//   - "matched":    second card completed a pair; both stay revealed.
//   - "mismatched": second card did not pair up; both revert after the
//     reveal window.
type Outcome string

const (
	OutcomeRevealed   Outcome = "revealed"
	OutcomeMatched    Outcome = "matched"
	OutcomeMismatched Outcome = "mismatched"
)

// Card is a single face-down position on the board.
type Card struct {
	Index      int    // Position on the board (0-based, stable for the session).
	PairID     int    // Which of the N pairs this card belongs to.
	ContentRef string // Opaque external identifier (e.g. an image URL).
	Matched    bool   // Latches true once resolved as part of a pair; never reverts.
}

// FlipResult is returned for every accepted flip.
// PairID is the flipped card's pair identity (the "reveal token"); it never
// discloses any other card's identity. PrevPairID is only meaningful for a
// mismatch, where the caller already flipped that card itself.
type FlipResult struct {
	PairID     int
	PrevPairID int
	Outcome    Outcome
	Finished   bool
}
