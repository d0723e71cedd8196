package game

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests step session time deterministically.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T, pairCount int, window time.Duration) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s, err := NewSession(pairCount, refs(pairCount), window)
	require.NoError(t, err)
	s.now = clock.Now
	s.StartedAt = clock.Now()
	return s, clock
}

// pairIndexes returns the two board positions holding pairID.
func pairIndexes(s *Session, pairID int) (int, int) {
	found := []int{}
	for _, c := range s.Cards {
		if c.PairID == pairID {
			found = append(found, c.Index)
		}
	}
	return found[0], found[1]
}

func TestNewSessionStartsActive(t *testing.T) {
	s, _ := newTestSession(t, 3, 0)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StateActive, s.State)
	assert.Equal(t, 6, s.Size())
	assert.Equal(t, 3, s.PairCount())
	assert.Zero(t, s.Moves())
	assert.False(t, s.Finished())
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	_, err := NewSession(0, refs(2), 0)
	assert.ErrorIs(t, err, ErrInvalidPairCount)

	_, err = NewSession(4, refs(2), 0)
	assert.ErrorIs(t, err, ErrInsufficientContent)
}

func TestFlipReveal(t *testing.T) {
	s, _ := newTestSession(t, 2, 0)

	res, err := s.Flip(0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRevealed, res.Outcome)
	assert.Equal(t, s.Cards[0].PairID, res.PairID)
	assert.False(t, res.Finished)
	assert.Equal(t, 1, s.Moves())
}

func TestFlipOutOfRangeDoesNotCountAsMove(t *testing.T) {
	s, _ := newTestSession(t, 2, 0)

	for _, idx := range []int{-1, 4, 100} {
		_, err := s.Flip(idx)
		assert.ErrorIs(t, err, ErrInvalidCardIndex)
	}
	assert.Zero(t, s.Moves())
}

func TestFlipSameCardTwiceRejected(t *testing.T) {
	s, _ := newTestSession(t, 2, 0)

	_, err := s.Flip(1)
	require.NoError(t, err)

	_, err = s.Flip(1)
	assert.ErrorIs(t, err, ErrAlreadyRevealed)
	assert.Equal(t, 1, s.Moves(), "rejected flip is not a move")
}

func TestFlipMatch(t *testing.T) {
	s, _ := newTestSession(t, 2, 0)
	a, b := pairIndexes(s, 0)

	_, err := s.Flip(a)
	require.NoError(t, err)
	res, err := s.Flip(b)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, 0, res.PairID)
	assert.False(t, res.Finished)
	assert.True(t, s.Cards[a].Matched)
	assert.True(t, s.Cards[b].Matched)
	assert.Equal(t, 2, s.MatchedCount)
	assert.Equal(t, 2, s.Moves())

	// Pending cleared: next flip is a fresh reveal.
	c, _ := pairIndexes(s, 1)
	next, err := s.Flip(c)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRevealed, next.Outcome)
}

func TestFlipMatchedCardRejected(t *testing.T) {
	s, _ := newTestSession(t, 2, 0)
	a, b := pairIndexes(s, 0)

	_, err := s.Flip(a)
	require.NoError(t, err)
	_, err = s.Flip(b)
	require.NoError(t, err)

	for _, idx := range []int{a, b} {
		_, err = s.Flip(idx)
		assert.ErrorIs(t, err, ErrAlreadyMatched)
	}
	assert.Equal(t, 2, s.Moves())
}

func TestFlipMismatchRevertsAndLocks(t *testing.T) {
	s, clock := newTestSession(t, 2, 500*time.Millisecond)
	a, _ := pairIndexes(s, 0)
	b, _ := pairIndexes(s, 1)

	_, err := s.Flip(a)
	require.NoError(t, err)
	res, err := s.Flip(b)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMismatched, res.Outcome)
	assert.Equal(t, 1, res.PairID)
	assert.Equal(t, 0, res.PrevPairID)
	assert.False(t, s.Cards[a].Matched)
	assert.False(t, s.Cards[b].Matched)
	assert.Zero(t, s.MatchedCount)
	assert.Equal(t, 2, s.Moves())

	// Board rejects input while the mismatch is on display.
	_, err = s.Flip(a)
	assert.ErrorIs(t, err, ErrBoardLocked)

	// After the window the board is idle again.
	clock.advance(600 * time.Millisecond)
	next, err := s.Flip(a)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRevealed, next.Outcome)
}

func TestFlipMismatchWithoutWindowNeverLocks(t *testing.T) {
	s, _ := newTestSession(t, 2, 0)
	a, _ := pairIndexes(s, 0)
	b, _ := pairIndexes(s, 1)

	_, err := s.Flip(a)
	require.NoError(t, err)
	_, err = s.Flip(b)
	require.NoError(t, err)

	_, err = s.Flip(a)
	assert.NoError(t, err)
}

// playToFinish matches every pair in order and returns the final FlipResult.
func playToFinish(t *testing.T, s *Session) FlipResult {
	t.Helper()
	var last FlipResult
	for pair := 0; pair < s.PairCount(); pair++ {
		a, b := pairIndexes(s, pair)
		_, err := s.Flip(a)
		require.NoError(t, err)
		last, err = s.Flip(b)
		require.NoError(t, err)
		require.Equal(t, OutcomeMatched, last.Outcome)
	}
	return last
}

func TestSessionFinishesExactlyOnce(t *testing.T) {
	s, clock := newTestSession(t, 3, 0)
	clock.advance(90 * time.Second)

	last := playToFinish(t, s)
	assert.True(t, last.Finished)
	assert.True(t, s.Finished())
	assert.Equal(t, StateFinished, s.State)
	assert.Equal(t, s.Size(), s.MatchedCount)
	assert.Equal(t, clock.Now(), s.FinishedAt)
	assert.Equal(t, 90*time.Second, s.Elapsed())

	// Further flips cannot disturb the finished state.
	finishedAt := s.FinishedAt
	_, err := s.Flip(0)
	assert.ErrorIs(t, err, ErrAlreadyMatched)
	assert.Equal(t, finishedAt, s.FinishedAt)
}

func TestReset(t *testing.T) {
	s, clock := newTestSession(t, 2, 0)
	playToFinish(t, s)
	require.NoError(t, s.SubmitResult(func(int, float64) error { return nil }))

	id := s.ID
	clock.advance(time.Minute)
	require.NoError(t, s.Reset(refs(2)))

	assert.Equal(t, id, s.ID, "reset keeps the session id")
	assert.Equal(t, StateActive, s.State)
	assert.Zero(t, s.Moves())
	assert.Zero(t, s.MatchedCount)
	assert.False(t, s.Submitted)
	assert.True(t, s.FinishedAt.IsZero())
	assert.Equal(t, clock.Now(), s.StartedAt)
	for _, c := range s.Cards {
		assert.False(t, c.Matched)
	}
}

func TestResetRejectsInsufficientRefs(t *testing.T) {
	s, _ := newTestSession(t, 3, 0)
	assert.ErrorIs(t, s.Reset(refs(2)), ErrInsufficientContent)
}

func TestSubmitResult(t *testing.T) {
	s, clock := newTestSession(t, 2, 0)

	err := s.SubmitResult(func(int, float64) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFinished)

	clock.advance(45 * time.Second)
	playToFinish(t, s)

	var gotMoves int
	var gotSeconds float64
	require.NoError(t, s.SubmitResult(func(moves int, seconds float64) error {
		gotMoves, gotSeconds = moves, seconds
		return nil
	}))
	assert.Equal(t, s.MoveCount, gotMoves)
	assert.InDelta(t, 45.0, gotSeconds, 0.001)
	assert.True(t, s.Submitted)

	err = s.SubmitResult(func(int, float64) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitResultDoesNotLatchOnRecordFailure(t *testing.T) {
	s, _ := newTestSession(t, 2, 0)
	playToFinish(t, s)

	boom := errors.New("insert failed")
	err := s.SubmitResult(func(int, float64) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Submitted)

	// A later attempt may still succeed.
	require.NoError(t, s.SubmitResult(func(int, float64) error { return nil }))
	assert.True(t, s.Submitted)
}

func TestFullScenario(t *testing.T) {
	// create(pairCount=2) → 4 cards, two pair ids; matching both pairs in
	// sequence finishes the session and its result is submittable once.
	s, _ := newTestSession(t, 2, 0)
	require.Len(t, s.Cards, 4)

	a0, b0 := pairIndexes(s, 0)
	first, err := s.Flip(a0)
	require.NoError(t, err)
	assert.Equal(t, 0, first.PairID)
	match, err := s.Flip(b0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, match.Outcome)
	assert.Equal(t, 2, s.MatchedCount)

	a1, b1 := pairIndexes(s, 1)
	_, err = s.Flip(a1)
	require.NoError(t, err)
	last, err := s.Flip(b1)
	require.NoError(t, err)
	assert.True(t, last.Finished)
	assert.Equal(t, 4, s.MatchedCount)
	assert.Equal(t, StateFinished, s.State)

	require.NoError(t, s.SubmitResult(func(moves int, _ float64) error {
		assert.Equal(t, 4, moves, "one move per accepted flip")
		return nil
	}))
}
