package footrule_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rushteam/footrule"
)

func ExampleSumFootruleDistance() {
	scores := footrule.ScoreTable{
		"A": {100, 0.1},
		"B": {90, 0.3},
		"C": {20, 0.2},
	}

	d, err := footrule.SumFootruleDistance(scores, footrule.ProposedOrdering{"C", "A", "B"})
	if err != nil {
		panic(err)
	}
	fmt.Println(d)

	ranks, _ := footrule.ConvertToRanks(scores)
	fmt.Println(ranks["A"], ranks["B"], ranks["C"])
	// Output:
	// 8
	// [1 3] [2 1] [3 2]
}

func TestSentinels(t *testing.T) {
	_, err := footrule.ConvertToRanks(footrule.ScoreTable{"A": {math.NaN()}})
	assert.ErrorIs(t, err, footrule.ErrInvalidScore)

	_, err = footrule.SumFootruleDistance(footrule.ScoreTable{"A": {1}, "B": {math.NaN()}}, footrule.ProposedOrdering{"A", "B"})
	assert.ErrorIs(t, err, footrule.ErrInvalidScore)

	_, err = footrule.SumFootruleDistance(footrule.ScoreTable{"A": {1}}, nil)
	assert.ErrorIs(t, err, footrule.ErrEmptyProposedRank)

	_, err = footrule.SumFootruleDistance(footrule.ScoreTable{"A": {1}}, footrule.ProposedOrdering{"B"})
	assert.ErrorIs(t, err, footrule.ErrInconsistentOrdering)
}
