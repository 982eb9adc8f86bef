package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/footrule/core"
)

type funcNode struct {
	name string
	fn   func([]*core.Item) ([]*core.Item, error)
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindReRank }
func (n *funcNode) Process(_ context.Context, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipeline_Run(t *testing.T) {
	drop := &funcNode{name: "drop.first", fn: func(items []*core.Item) ([]*core.Item, error) {
		return items[1:], nil
	}}
	reverse := &funcNode{name: "reverse", fn: func(items []*core.Item) ([]*core.Item, error) {
		out := make([]*core.Item, 0, len(items))
		for i := len(items) - 1; i >= 0; i-- {
			out = append(out, items[i])
		}
		return out, nil
	}}

	p := &Pipeline{Name: "test", Nodes: []Node{drop, reverse}}
	out, err := p.Run(context.Background(), []*core.Item{core.NewItem("A"), core.NewItem("B"), core.NewItem("C")})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "C", out[0].ID)
	assert.Equal(t, "B", out[1].ID)
}

func TestPipeline_RunError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{&funcNode{name: "fail", fn: func([]*core.Item) ([]*core.Item, error) {
		return nil, boom
	}}}}

	_, err := p.Run(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fail")
}

func TestPipeline_RunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	p := &Pipeline{Nodes: []Node{&funcNode{name: "n", fn: func(items []*core.Item) ([]*core.Item, error) {
		called = true
		return items, nil
	}}}}

	_, err := p.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

const testYAML = `
pipeline:
  name: eval
  nodes:
    - type: rerank.topn
      config:
        n: 2
    - type: noop
`

func TestConfig_BuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(testYAML))
	require.NoError(t, err)
	assert.Equal(t, "eval", cfg.Pipeline.Name)
	require.Len(t, cfg.Pipeline.Nodes, 2)
	assert.Equal(t, 2, cfg.Pipeline.Nodes[0].Config["n"])

	factory := NewNodeFactory()
	var gotN any
	factory.Register("rerank.topn", func(c map[string]any) (Node, error) {
		gotN = c["n"]
		return &funcNode{name: "topn", fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}, nil
	})
	factory.Register("noop", func(c map[string]any) (Node, error) {
		assert.NotNil(t, c)
		return &funcNode{name: "noop", fn: func(items []*core.Item) ([]*core.Item, error) { return items, nil }}, nil
	})

	p, err := cfg.BuildPipeline(factory)
	require.NoError(t, err)
	assert.Equal(t, "eval", p.Name)
	assert.Len(t, p.Nodes, 2)
	assert.Equal(t, 2, gotN)

	_, err = NewNodeFactory().Build("missing", nil)
	assert.Error(t, err)
	_, err = cfg.BuildPipeline(NewNodeFactory())
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "pipeline.yaml")
	jsonPath := filepath.Join(dir, "pipeline.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte(testYAML), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"pipeline":{"name":"j","nodes":[{"type":"noop"}]}}`), 0o600))

	cfg, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "eval", cfg.Pipeline.Name)

	cfg, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "j", cfg.Pipeline.Name)
	assert.Equal(t, "noop", cfg.Pipeline.Nodes[0].Type)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
