package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://img.test/%d.jpg", i)
	}
	return out
}

func TestNewBoardPairing(t *testing.T) {
	for _, pairCount := range []int{1, 2, 3, 8, 10} {
		t.Run(fmt.Sprintf("pairs_%d", pairCount), func(t *testing.T) {
			cards, err := NewBoard(pairCount, refs(pairCount))
			require.NoError(t, err)
			require.Len(t, cards, 2*pairCount)

			perPair := map[int]int{}
			refByPair := map[int]string{}
			for i, c := range cards {
				assert.Equal(t, i, c.Index, "index matches position")
				assert.False(t, c.Matched, "cards start unmatched")
				perPair[c.PairID]++
				if prev, ok := refByPair[c.PairID]; ok {
					assert.Equal(t, prev, c.ContentRef, "pair shares one content ref")
				} else {
					refByPair[c.PairID] = c.ContentRef
				}
			}
			require.Len(t, perPair, pairCount)
			for pair, n := range perPair {
				assert.Equal(t, 2, n, "pair %d occurs exactly twice", pair)
			}
		})
	}
}

func TestNewBoardRejectsBadInput(t *testing.T) {
	_, err := NewBoard(0, refs(4))
	assert.ErrorIs(t, err, ErrInvalidPairCount)

	_, err = NewBoard(-3, refs(4))
	assert.ErrorIs(t, err, ErrInvalidPairCount)

	_, err = NewBoard(5, refs(4))
	assert.ErrorIs(t, err, ErrInsufficientContent)
}

func TestNewBoardExtraRefsAllowed(t *testing.T) {
	cards, err := NewBoard(2, refs(6))
	require.NoError(t, err)
	assert.Len(t, cards, 4)
}

func TestNewBoardShuffles(t *testing.T) {
	// 12! layouts; 20 identical draws in a row would mean the shuffle is broken.
	layout := func() string {
		cards, err := NewBoard(6, refs(6))
		require.NoError(t, err)
		s := ""
		for _, c := range cards {
			s += fmt.Sprintf("%d,", c.PairID)
		}
		return s
	}
	first := layout()
	for i := 0; i < 20; i++ {
		if layout() != first {
			return
		}
	}
	t.Fatal("20 consecutive identical board layouts")
}
