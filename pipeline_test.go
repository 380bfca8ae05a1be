package graph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/gain"
	"github.com/neurograph/graph/metric"
	"github.com/neurograph/graph/mock"
)

// The engine is single-threaded by contract: no test may leave a goroutine
// behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPipelineScenario(t *testing.T) {
	p := graph.NewPipeline(graph.WithName("scenario"))
	g := p.Graph()

	src := &mock.Source{Channels: []string{"Cz", "Pz"}, BufferSize: 10, Value: 0}
	identity, err := gain.New(1)
	require.NoError(t, err)
	out := &mock.Output{}

	sn := g.NewSource(src)
	pn := g.NewProcessor(identity)
	on := g.NewOutput(out)
	require.NoError(t, p.SetSource(sn))
	require.NoError(t, p.AddProcessor(pn))
	require.NoError(t, p.AddOutput(on, nil))

	// (1) Everything initializes without errors.
	require.NoError(t, p.InitializeAll())
	for _, n := range p.Nodes() {
		assert.True(t, n.Initialized())
	}

	// (2) A 2x10 buffer of zeros passes through the identity transform.
	require.NoError(t, p.Tick())
	require.NoError(t, p.Tick())
	require.Equal(t, 2, out.Last.NumChannels())
	require.Equal(t, 10, out.Last.Size())
	for c := range out.Last {
		for i := range out.Last[c] {
			assert.Zero(t, out.Last[c][i])
		}
	}

	// (3) A local attribute change resets the processor on the next tick;
	// the output tracks nothing, so it just re-pulls afterwards.
	consumed := out.Calls.Consume
	require.NoError(t, identity.SetFactor(0.5))
	require.True(t, pn.PendingReset())
	require.NoError(t, p.Tick())
	assert.False(t, pn.PendingReset())
	require.NoError(t, p.Tick())
	assert.Equal(t, consumed+1, out.Calls.Consume)
	assert.Equal(t, 0, out.Calls.Flush)

	// (4) Replacing the source immediately marks the processor for
	// reinitialization.
	replacement := g.NewSource(&mock.Source{Channels: []string{"Cz", "Pz"}, BufferSize: 10})
	require.NoError(t, p.SetSource(replacement))
	assert.True(t, pn.PendingReinitialize())
	assert.True(t, pn.InputHistoryInvalid())
}

func TestAddProcessorDuplicate(t *testing.T) {
	p := graph.NewPipeline()
	g := p.Graph()
	require.NoError(t, p.SetSource(g.NewSource(&mock.Source{})))

	pn := g.NewProcessor(&mock.Processor{})
	require.NoError(t, p.AddProcessor(pn))
	assert.True(t, errors.Is(p.AddProcessor(pn), graph.ErrAlreadyAdded))
}

func TestFloatingOutputsFollowTail(t *testing.T) {
	p := graph.NewPipeline()
	g := p.Graph()
	sn := g.NewSource(&mock.Source{})
	require.NoError(t, p.SetSource(sn))

	floating := g.NewOutput(&mock.Output{})
	require.NoError(t, p.AddOutput(floating, nil))
	assert.Equal(t, sn, floating.Upstream())

	pinned := g.NewOutput(&mock.Output{})
	require.NoError(t, p.AddOutput(pinned, sn))

	// Inserting a processor re-points floating outputs to the new tail
	// and leaves pinned ones alone.
	pn := g.NewProcessor(&mock.Processor{})
	require.NoError(t, p.AddProcessor(pn))
	assert.Equal(t, pn, floating.Upstream())
	assert.Equal(t, sn, pinned.Upstream())
}

func TestWrongRoles(t *testing.T) {
	p := graph.NewPipeline()
	g := p.Graph()
	sn := g.NewSource(&mock.Source{})
	pn := g.NewProcessor(&mock.Processor{})

	assert.True(t, errors.Is(p.SetSource(pn), graph.ErrWrongRole))
	assert.True(t, errors.Is(p.AddProcessor(sn), graph.ErrWrongRole))
	assert.True(t, errors.Is(p.AddOutput(pn, nil), graph.ErrWrongRole))
}

func TestFrequency(t *testing.T) {
	p := graph.NewPipeline()
	_, err := p.Frequency()
	assert.True(t, errors.Is(err, graph.ErrNoSource))

	g := p.Graph()
	require.NoError(t, p.SetSource(g.NewSource(&mock.Source{SampleRate: 500})))
	require.NoError(t, p.InitializeAll())
	frequency, err := p.Frequency()
	require.NoError(t, err)
	assert.Equal(t, 500, frequency)
}

func TestTickWithoutSource(t *testing.T) {
	p := graph.NewPipeline()
	assert.True(t, errors.Is(p.Tick(), graph.ErrNoSource))
	assert.True(t, errors.Is(p.InitializeAll(), graph.ErrNoSource))
}

func TestPipelineMetric(t *testing.T) {
	p := graph.NewPipeline(graph.WithMetric())
	g := p.Graph()
	src := &mock.Source{BufferSize: 8}
	require.NoError(t, p.SetSource(g.NewSource(src)))
	require.NoError(t, p.AddProcessor(g.NewProcessor(&mock.Processor{})))
	require.NoError(t, p.InitializeAll())

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Tick())
	}

	counters := metric.Get(src)
	assert.NotEmpty(t, counters[metric.UpdateCounter])
	assert.NotEmpty(t, counters[metric.SampleCounter])
}
