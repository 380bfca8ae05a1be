package graph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/mock"
)

func TestUpstreamAttrTraversesChain(t *testing.T) {
	src := &mock.Source{Attrs: map[string]interface{}{"Mode": "mne"}}
	g := graph.New()
	sn := g.NewSource(src)
	pn := g.NewProcessor(&mock.Processor{})
	on := g.NewOutput(&mock.Output{})
	require.NoError(t, g.Connect(pn, sn))
	require.NoError(t, g.Connect(on, pn))

	// The processor in between does not provide the attribute; traversal
	// walks past it up to the source.
	value, err := on.UpstreamAttr("Mode")
	require.NoError(t, err)
	assert.Equal(t, "mne", value)

	_, err = on.UpstreamAttr("Unknown")
	assert.True(t, errors.Is(err, graph.ErrNoUpstreamAttribute))

	// A node has no access to its own attributes, only upstream ones.
	_, err = sn.UpstreamAttr("Mode")
	assert.True(t, errors.Is(err, graph.ErrNoUpstreamAttribute))
}

func TestUpstreamInfo(t *testing.T) {
	src := &mock.Source{Channels: []string{"Fz", "Cz", "Pz"}, SampleRate: 250}
	g := graph.New()
	sn := g.NewSource(src)
	pn := g.NewProcessor(&mock.Processor{})
	on := g.NewOutput(&mock.Output{})
	require.NoError(t, g.Connect(pn, sn))
	require.NoError(t, g.Connect(on, pn))

	// No descriptor before the source initialized.
	_, err := on.UpstreamInfo()
	assert.True(t, errors.Is(err, graph.ErrNoUpstreamAttribute))

	require.NoError(t, sn.Initialize())
	info, err := on.UpstreamInfo()
	require.NoError(t, err)
	assert.Equal(t, 3, info.NumChannels())
	assert.Equal(t, 250, info.SampleRate)
}

func TestTrackedSnapshotFunc(t *testing.T) {
	// The snapshot reducer is applied both at capture and at comparison,
	// so drift of irrelevant parts of a mutable value is ignored.
	src := &mock.Source{Attrs: map[string]interface{}{
		"Window": []int{10, 20},
	}}
	first := func(value interface{}) interface{} {
		return value.([]int)[0]
	}
	proc := &mock.Processor{
		TrackedAttrs: []graph.TrackedAttr{{Name: "Window", Snapshot: first}},
	}
	g := graph.New()
	sn := g.NewSource(src)
	pn := g.NewProcessor(proc)
	require.NoError(t, g.Connect(pn, sn))

	require.NoError(t, sn.Initialize())
	require.NoError(t, pn.Initialize())

	// Only the second element changes: not drift under the reducer.
	src.SetAttr("Window", []int{10, 99})
	require.NoError(t, sn.Update()) // resolves source reset
	require.NoError(t, sn.Update())
	require.NoError(t, pn.Update())
	assert.Equal(t, 1, proc.Calls.Init)

	src.SetAttr("Window", []int{11, 99})
	require.NoError(t, sn.Update())
	require.NoError(t, sn.Update())
	require.NoError(t, pn.Update())
	assert.Equal(t, 2, proc.Calls.Init)
}
