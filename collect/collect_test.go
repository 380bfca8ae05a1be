package collect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/collect"
	"github.com/neurograph/graph/gain"
	"github.com/neurograph/graph/replay"
	"github.com/neurograph/graph/signal"
)

func TestConsumeAndFlush(t *testing.T) {
	o := collect.New()
	require.NoError(t, o.Initialize(nil))

	in := signal.Float64{{1, 2}}
	require.NoError(t, o.Consume(nil, in))
	require.NoError(t, o.Consume(nil, signal.Float64{{3}}))
	assert.Equal(t, signal.Float64{{1, 2, 3}}, o.Buffer())

	// The collected copy does not alias the consumed buffer.
	in[0][0] = 42
	assert.Equal(t, signal.Float64{{1, 2, 3}}, o.Buffer())

	require.NoError(t, o.FlushHistory(nil))
	assert.Nil(t, o.Buffer())
}

func TestInitializeDropsCollected(t *testing.T) {
	o := collect.New()
	require.NoError(t, o.Consume(nil, signal.Float64{{1}}))
	require.NoError(t, o.Initialize(nil))
	assert.Nil(t, o.Buffer())
}

// TestPipelineCollect replays a recording through a gain stage and checks
// that the collector reassembles the scaled recording.
func TestPipelineCollect(t *testing.T) {
	recording := signal.Float64{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
	}
	collector := collect.New()
	amplifier, err := gain.New(2)
	require.NoError(t, err)

	p := graph.NewPipeline(graph.WithName("collect test"))
	g := p.Graph()
	require.NoError(t, p.SetSource(g.NewSource(replay.New(recording, 250, 2))))
	require.NoError(t, p.AddProcessor(g.NewProcessor(amplifier)))
	require.NoError(t, p.AddOutput(g.NewOutput(collector), nil))
	require.NoError(t, p.InitializeAll())

	// Three ticks drain the recording, a fourth produces nothing.
	for i := 0; i < 4; i++ {
		require.NoError(t, p.Tick())
	}
	assert.Equal(t, signal.Float64{
		{2, 4, 6, 8, 10},
		{12, 14, 16, 18, 20},
	}, collector.Buffer())
}
