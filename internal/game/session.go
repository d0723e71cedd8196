// internal/game/session.go
//
// A Session is one live memory-pairs game: the shuffled board, the flip
// state machine that resolves attempts against it, and the submission latch.
//
// Flip state machine:
//   - Idle (no pending card):      a flip holds that card face up.
//   - OneRevealed (pending card):  a flip of a second card resolves the
//     attempt as a match (both latch Matched) or a mismatch (the board is
//     locked for the reveal window, then returns to Idle).
//
// Concurrency: every mutating or reading method takes the session's own
// mutex, so flip, reset and submit on one session serialize against each
// other. Different sessions never contend (the repository's map lock is
// short-held and separate).

package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the authoritative state of a single game.
type Session struct {
	ID           string
	Cards        []Card
	MoveCount    int       // accepted flip requests
	MatchedCount int       // cards with Matched=true; always even
	StartedAt    time.Time
	FinishedAt   time.Time // zero until all pairs matched; then immutable
	State        State
	Submitted    bool // guards at-most-one leaderboard submission

	mu           sync.Mutex
	pending      int           // index of the card held face up; -1 when none
	revealWindow time.Duration // how long a mismatch keeps the board locked
	lockedUntil  time.Time     // deadline of the current mismatch lock
	now          func() time.Time
}

// NewSession creates an Active session with a fresh shuffled board.
// revealWindow controls how long flips are rejected after a mismatch;
// zero disables the server-side lock entirely.
func NewSession(pairCount int, contentRefs []string, revealWindow time.Duration) (*Session, error) {
	cards, err := NewBoard(pairCount, contentRefs)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:           uuid.NewString(),
		Cards:        cards,
		State:        StateActive,
		pending:      -1,
		revealWindow: revealWindow,
		now:          time.Now,
	}
	s.StartedAt = s.now()
	return s, nil
}

// Flip resolves one flip request against the state machine.
// Rejections (ErrBoardLocked, ErrInvalidCardIndex, ErrAlreadyMatched,
// ErrAlreadyRevealed) never count as a move.
func (s *Session) Flip(index int) (FlipResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Before(s.lockedUntil) {
		return FlipResult{}, ErrBoardLocked
	}
	if index < 0 || index >= len(s.Cards) {
		return FlipResult{}, ErrInvalidCardIndex
	}
	card := &s.Cards[index]
	if card.Matched {
		return FlipResult{}, ErrAlreadyMatched
	}
	if s.pending == index {
		return FlipResult{}, ErrAlreadyRevealed
	}

	s.MoveCount++

	if s.pending < 0 {
		// Idle → OneRevealed: hold this card face up, reveal its pair id only.
		s.pending = index
		return FlipResult{PairID: card.PairID, Outcome: OutcomeRevealed}, nil
	}

	prev := &s.Cards[s.pending]
	s.pending = -1

	if prev.PairID == card.PairID {
		prev.Matched = true
		card.Matched = true
		s.MatchedCount += 2
		res := FlipResult{PairID: card.PairID, Outcome: OutcomeMatched}
		if s.MatchedCount == len(s.Cards) {
			s.State = StateFinished
			s.FinishedAt = now
			res.Finished = true
		}
		return res, nil
	}

	// Mismatch: both cards stay unmatched; reject further flips until the
	// reveal window has elapsed so the client can show both faces.
	if s.revealWindow > 0 {
		s.lockedUntil = now.Add(s.revealWindow)
	}
	return FlipResult{PairID: card.PairID, PrevPairID: prev.PairID, Outcome: OutcomeMismatched}, nil
}

// Reset replaces the board and zeroes all counters, keeping the session id.
// The submission latch is cleared: a reset game is a new run.
func (s *Session) Reset(contentRefs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := NewBoard(len(s.Cards)/2, contentRefs)
	if err != nil {
		return err
	}
	s.Cards = cards
	s.MoveCount = 0
	s.MatchedCount = 0
	s.StartedAt = s.now()
	s.FinishedAt = time.Time{}
	s.State = StateActive
	s.Submitted = false
	s.pending = -1
	s.lockedUntil = time.Time{}
	return nil
}

// SubmitResult records a finished session's score exactly once.
// record is invoked with the authoritative move count and completion time
// while the session lock is held; the Submitted latch is set only if record
// returns nil, so a failed leaderboard insert leaves the session submittable.
func (s *Session) SubmitResult(record func(moves int, seconds float64) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateFinished {
		return ErrSessionNotFinished
	}
	if s.Submitted {
		return ErrAlreadySubmitted
	}
	if err := record(s.MoveCount, s.FinishedAt.Sub(s.StartedAt).Seconds()); err != nil {
		return err
	}
	s.Submitted = true
	return nil
}

// Finished reports whether all pairs have been matched.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State == StateFinished
}

// Moves returns the accepted-flip count.
func (s *Session) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.MoveCount
}

// Elapsed returns play time so far, or total completion time once finished.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == StateFinished {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return s.now().Sub(s.StartedAt)
}

// PairCount returns the number of pairs on the board.
func (s *Session) PairCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Cards) / 2
}

// Size returns the number of cards on the board.
func (s *Session) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Cards)
}
