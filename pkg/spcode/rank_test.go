package spcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spcalc/spcalc/pkg/spcode"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{70.004, 2, 70},
		{79.996, 2, 80},
		{66.666666, 2, 66.67},
		{66.666666, 0, 67},
		{-1.234, 1, -1.2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, spcode.Round(tt.in, tt.places), "Round(%v, %d)", tt.in, tt.places)
	}
}

func TestCompareUsesRoundedGrades(t *testing.T) {
	base := spcode.Result{Remove: spcode.RemovalSet{}, Grade: 70.001}

	assert.Equal(t, spcode.OutcomeSame, spcode.Compare(spcode.Result{Grade: 70.004}, base, 2))
	assert.Equal(t, spcode.OutcomeBetter, spcode.Compare(spcode.Result{Grade: 70.01}, base, 2))
	assert.Equal(t, spcode.OutcomeWorse, spcode.Compare(spcode.Result{Grade: 69.99}, base, 2))
}

func TestRankedIsTotalOrder(t *testing.T) {
	res := &spcode.SemesterResult{Results: []spcode.Result{
		{Remove: spcode.RemovalSet{"B", "C"}, Grade: 75},
		{Remove: spcode.RemovalSet{"A"}, Grade: 75},
		{Remove: spcode.RemovalSet{}, Grade: 75},
		{Remove: spcode.RemovalSet{"B"}, Grade: 75},
		{Remove: spcode.RemovalSet{"C"}, Grade: 90},
	}}

	ranked := res.Ranked()
	want := []spcode.RemovalSet{{"C"}, {}, {"A"}, {"B"}, {"B", "C"}}
	for i, r := range ranked {
		assert.Equal(t, want[i], r.Remove, "position %d", i)
	}
	// Ranking does not reorder the original results.
	assert.Equal(t, spcode.RemovalSet{"B", "C"}, res.Results[0].Remove)
}
