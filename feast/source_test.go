package feast

import (
	"context"
	"errors"
	"testing"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSource_Recall(t *testing.T) {
	var gotReq *feastsdk.OnlineFeaturesRequest
	src := &ScoreSource{
		Project:   "ranking",
		EntityKey: "item_id",
		IDs:       []string{"A", "B"},
		Features:  []string{"item_stats:ctr", "item_stats:gmv"},
		fetch: func(_ context.Context, req *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
			gotReq = req
			return []feastsdk.Row{
				{"item_id": feastsdk.StrVal("A"), "item_stats:ctr": feastsdk.DoubleVal(0.1), "item_stats:gmv": feastsdk.Int64Val(300)},
				{"item_id": feastsdk.StrVal("B"), "item_stats:ctr": feastsdk.FloatVal(0.5), "item_stats:gmv": feastsdk.StrVal("n/a")},
			}, nil
		},
	}

	items, err := src.Process(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, gotReq)
	assert.Equal(t, "ranking", gotReq.Project)
	assert.Equal(t, []string{"item_stats:ctr", "item_stats:gmv"}, gotReq.Features)
	require.Len(t, gotReq.Entities, 2)
	assert.Equal(t, "B", gotReq.Entities[1]["item_id"].GetStringVal())

	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, map[string]float64{"ctr": 0.1, "gmv": 300}, items[0].Features)
	assert.InDelta(t, 0.5, items[1].Features["ctr"], 1e-6)
	_, ok := items[1].Features["gmv"]
	assert.False(t, ok, "non-numeric values are skipped")
}

func TestScoreSource_Int64Entity(t *testing.T) {
	src := &ScoreSource{
		EntityKey:   "item_id",
		Int64Entity: true,
		IDs:         []string{"1001"},
		Features:    []string{"ctr"},
		fetch: func(_ context.Context, req *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
			assert.Equal(t, int64(1001), req.Entities[0]["item_id"].GetInt64Val())
			return []feastsdk.Row{{"ctr": feastsdk.DoubleVal(1)}}, nil
		},
	}
	items, err := src.Recall(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, items[0].Features["ctr"])

	src.IDs = []string{"not-a-number"}
	_, err = src.Recall(context.Background())
	assert.Error(t, err)
}

func TestScoreSource_Errors(t *testing.T) {
	base := func() *ScoreSource {
		return &ScoreSource{EntityKey: "item_id", IDs: []string{"A", "B"}, Features: []string{"ctr"}}
	}

	t.Run("no ids", func(t *testing.T) {
		s := base()
		s.IDs = nil
		items, err := s.Recall(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, items)
	})

	t.Run("no features", func(t *testing.T) {
		s := base()
		s.Features = nil
		_, err := s.Recall(context.Background())
		assert.Error(t, err)
	})

	t.Run("no entity key", func(t *testing.T) {
		s := base()
		s.EntityKey = ""
		_, err := s.Recall(context.Background())
		assert.Error(t, err)
	})

	t.Run("nil client", func(t *testing.T) {
		_, err := base().Recall(context.Background())
		assert.Error(t, err)
	})

	t.Run("fetch error", func(t *testing.T) {
		s := base()
		boom := errors.New("unavailable")
		s.fetch = func(context.Context, *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) { return nil, boom }
		_, err := s.Recall(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		s := base()
		s.fetch = func(context.Context, *feastsdk.OnlineFeaturesRequest) ([]feastsdk.Row, error) {
			return []feastsdk.Row{{}}, nil
		}
		_, err := s.Recall(context.Background())
		assert.Error(t, err)
	})
}

func TestFeatureName(t *testing.T) {
	assert.Equal(t, "ctr", featureName("item_stats:ctr"))
	assert.Equal(t, "ctr", featureName("ctr"))
}
