package signal_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neurograph/graph/signal"
)

func TestInterIntAsFloat64(t *testing.T) {
	tests := []struct {
		ints        []int
		numChannels int
		bitDepth    signal.BitDepth
		expected    [][]float64
	}{
		{
			ints:        []int{1, 2, 1, 2, 1, 2},
			numChannels: 2,
			expected: [][]float64{
				{1, 1, 1},
				{2, 2, 2},
			},
		},
		{
			ints:        []int{1, 2, 1, 2, 1},
			numChannels: 2,
			expected: [][]float64{
				{1, 1, 1},
				{2, 2, 0},
			},
		},
		{
			ints:        []int{math.MaxInt16, math.MaxInt16 * 2},
			numChannels: 2,
			bitDepth:    signal.BitDepth16,
			expected: [][]float64{
				{1},
				{2},
			},
		},
		{
			ints:     nil,
			expected: nil,
		},
	}

	for _, test := range tests {
		ints := signal.InterInt{
			Data:        test.ints,
			NumChannels: test.numChannels,
			BitDepth:    test.bitDepth,
		}
		assert.Equal(t, signal.Float64(test.expected), ints.AsFloat64())
	}
}

func TestSliceAndAppend(t *testing.T) {
	buffer := signal.Float64{
		{0, 1, 2, 3, 4},
		{5, 6, 7, 8, 9},
	}

	assert.Equal(t, signal.Float64{{1, 2}, {6, 7}}, buffer.Slice(1, 2))
	assert.Equal(t, signal.Float64{{4}, {9}}, buffer.Slice(4, 3))
	assert.Nil(t, buffer.Slice(5, 1))
	assert.Nil(t, buffer.Slice(-1, 1))

	var recorded signal.Float64
	recorded = recorded.Append(buffer.Slice(0, 2))
	recorded = recorded.Append(buffer.Slice(2, 3))
	assert.Equal(t, buffer, recorded)
}

func TestEmpty(t *testing.T) {
	assert.True(t, signal.Float64(nil).Empty())
	assert.True(t, signal.Float64{}.Empty())
	assert.True(t, signal.Float64{{}}.Empty())
	assert.False(t, signal.Float64{{0}}.Empty())
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, "1s", signal.DurationOf(250, 250).String())
	assert.Equal(t, "500ms", signal.DurationOf(500, 250).String())
}
