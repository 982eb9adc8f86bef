package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/footrule/core"
	"github.com/rushteam/footrule/feature"
	"github.com/rushteam/footrule/rank"
)

func newItems(order ...string) []*core.Item {
	scores := map[string][2]float64{
		"A": {100, 0.1},
		"B": {90, 0.3},
		"C": {20, 0.2},
	}
	items := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := core.NewItem(id)
		it.PutFeature("clicks", scores[id][0])
		it.PutFeature("ctr", scores[id][1])
		items = append(items, it)
	}
	return items
}

func newExtractor(t *testing.T) *feature.ScoreExtractor {
	t.Helper()
	e, err := feature.NewScoreExtractor(feature.WithFeatureMetrics("clicks", "ctr"))
	require.NoError(t, err)
	return e
}

func TestFootruleNode_Process(t *testing.T) {
	var got *rank.Report
	node, err := NewFootruleNode(newExtractor(t),
		WithAggregator(rank.NewAggregator(rank.WithParallelism(2))),
		WithReportHook(func(r *rank.Report) { got = r }),
	)
	require.NoError(t, err)

	items := newItems("C", "A", "B")
	out, err := node.Process(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "C", out[0].ID, "order is unchanged")

	require.NotNil(t, got)
	assert.Equal(t, 8, got.Total)

	for _, it := range out {
		assert.Equal(t, "8", it.Labels["footrule_distance"].Value)
	}
	assert.Equal(t, core.RankVector{3, 2}, out[0].Meta["footrule_ranks"])
	assert.Equal(t, 3, out[0].Meta["footrule_displacement"])
	assert.Equal(t, 2, out[1].Meta["footrule_proposed_rank"])

	// 重复运行不会累积 label
	out, err = node.Process(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, "8", out[0].Labels["footrule_distance"].Value)
}

func TestFootruleNode_MaxDistance(t *testing.T) {
	node, err := NewFootruleNode(newExtractor(t), WithMaxDistance(4))
	require.NoError(t, err)

	_, err = node.Process(context.Background(), newItems("A", "B", "C"))
	assert.NoError(t, err)

	var reported bool
	node, err = NewFootruleNode(newExtractor(t), WithMaxDistance(4), WithReportHook(func(*rank.Report) { reported = true }))
	require.NoError(t, err)
	items := newItems("C", "A", "B")
	_, err = node.Process(context.Background(), items)
	assert.ErrorIs(t, err, ErrDistanceExceeded)
	assert.False(t, reported)
	for _, it := range items {
		assert.Empty(t, it.Labels, "items are left untouched")
		assert.Empty(t, it.Meta)
	}

	strict, err := NewFootruleNode(newExtractor(t), WithMaxDistance(0))
	require.NoError(t, err)
	_, err = strict.Process(context.Background(), newItems("A", "B", "C"))
	assert.ErrorIs(t, err, ErrDistanceExceeded)
}

func TestFootruleNode_Errors(t *testing.T) {
	_, err := NewFootruleNode(nil)
	assert.Error(t, err)

	node, err := NewFootruleNode(newExtractor(t))
	require.NoError(t, err)

	_, err = node.Process(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrEmptyProposedRank)

	items := newItems("A", "B")
	delete(items[1].Features, "ctr")
	_, err = node.Process(context.Background(), items)
	assert.ErrorIs(t, err, feature.ErrMissingMetric)
}

func TestTopNNode(t *testing.T) {
	items := newItems("A", "B", "C")

	out, err := (&TopNNode{N: 2}).Process(context.Background(), items)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = (&TopNNode{N: 0}).Process(context.Background(), items)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = (&TopNNode{N: 10}).Process(context.Background(), items)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
