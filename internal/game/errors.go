// internal/game/errors.go
//
// Sentinel errors for the game engine. Handlers match these with errors.Is
// to pick response codes; none of them are fatal to the process.

package game

import "errors"

var (
	// ErrInvalidPairCount rejects board creation with a non-positive pair count.
	ErrInvalidPairCount = errors.New("pair count must be positive")

	// ErrInsufficientContent rejects board creation when fewer content refs
	// than pairs were supplied.
	ErrInsufficientContent = errors.New("not enough content refs for pair count")

	// ErrInvalidCardIndex rejects a flip targeting a position outside the board.
	ErrInvalidCardIndex = errors.New("card index out of range")

	// ErrAlreadyMatched rejects a flip targeting a card already resolved.
	ErrAlreadyMatched = errors.New("card already matched")

	// ErrAlreadyRevealed rejects re-flipping the card currently held face up.
	ErrAlreadyRevealed = errors.New("card already revealed")

	// ErrBoardLocked rejects flips while a mismatched pair is still on display.
	ErrBoardLocked = errors.New("board locked during mismatch resolution")

	// ErrSessionNotFinished rejects score submission before all pairs matched.
	ErrSessionNotFinished = errors.New("session not finished")

	// ErrAlreadySubmitted rejects a second score submission for one session.
	ErrAlreadySubmitted = errors.New("score already submitted")
)
