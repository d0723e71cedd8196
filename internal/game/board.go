// internal/game/board.go
//
// Board generation for a session: 2×pairCount cards, two per pair id, each
// pair sharing one externally supplied content ref, laid out in an unbiased
// random permutation.

package game

import "math/rand"

// NewBoard builds a shuffled board of paired cards.
// Each pair id in [0, pairCount) occurs on exactly two cards, both carrying
// contentRefs[pairID]. The layout is a uniform random permutation (in-place
// Fisher–Yates via rand.Shuffle); Card.Index always equals the card's final
// position.
func NewBoard(pairCount int, contentRefs []string) ([]Card, error) {
	if pairCount <= 0 {
		return nil, ErrInvalidPairCount
	}
	if len(contentRefs) < pairCount {
		return nil, ErrInsufficientContent
	}

	cards := make([]Card, 0, 2*pairCount)
	for pair := 0; pair < pairCount; pair++ {
		cards = append(cards,
			Card{PairID: pair, ContentRef: contentRefs[pair]},
			Card{PairID: pair, ContentRef: contentRefs[pair]},
		)
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	for i := range cards {
		cards[i].Index = i
	}
	return cards, nil
}
