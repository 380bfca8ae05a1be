// Package replay provides a source that replays an in-memory recording
// chunk by chunk, one chunk per tick.
package replay

import (
	"fmt"

	"github.com/go-audio/audio"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/signal"
)

// Source replays a recording. Once the recording is exhausted it produces
// empty output, or starts over when looping is enabled.
type Source struct {
	graph.Attached

	recording  signal.Float64
	labels     []string
	sampleRate int
	bufferSize int
	loop       bool

	info *signal.Info
	pos  int
}

// New returns a source replaying the recording in bufferSize chunks.
func New(recording signal.Float64, sampleRate, bufferSize int) *Source {
	return &Source{
		recording:  recording,
		sampleRate: sampleRate,
		bufferSize: bufferSize,
	}
}

// FromBuffer returns a source replaying an audio buffer. Sampling metadata
// is taken from the buffer's format.
func FromBuffer(buf audio.Buffer, bufferSize int) (*Source, error) {
	format := buf.PCMFormat()
	if format == nil {
		return nil, fmt.Errorf("%w: buffer has no format", graph.ErrInvalidValue)
	}
	ints := buf.AsIntBuffer()
	recording := signal.InterInt{
		Data:        ints.Data,
		NumChannels: format.NumChannels,
		BitDepth:    signal.BitDepth(ints.SourceBitDepth),
	}.AsFloat64()
	return New(recording, format.SampleRate, bufferSize), nil
}

// SetRecording replaces the recording and schedules a reset.
func (s *Source) SetRecording(recording signal.Float64) {
	s.recording = recording
	s.MarkResetNeeded()
}

// SetLabels assigns channel labels and schedules a reset. Without labels
// the channels are named ch1..chN at initialization.
func (s *Source) SetLabels(labels []string) {
	s.labels = labels
	s.MarkResetNeeded()
}

// SetLoop toggles replay from the start once the recording is exhausted.
func (s *Source) SetLoop(loop bool) {
	s.loop = loop
}

// Initialize validates the recording shape and populates the descriptor.
func (s *Source) Initialize(*graph.Node) error {
	s.info = nil
	s.pos = 0
	if s.bufferSize <= 0 {
		return fmt.Errorf("%w: buffer size must be positive, got %d", graph.ErrInvalidValue, s.bufferSize)
	}
	labels := s.labels
	if len(labels) == 0 {
		labels = make([]string, s.recording.NumChannels())
		for i := range labels {
			labels[i] = fmt.Sprintf("ch%d", i+1)
		}
	}
	if len(labels) != s.recording.NumChannels() {
		return fmt.Errorf("%w: %d labels for %d channels",
			graph.ErrInvalidValue, len(labels), s.recording.NumChannels())
	}
	s.info = &signal.Info{
		Labels:     append([]string{}, labels...),
		SampleRate: s.sampleRate,
	}
	return nil
}

// Info returns the descriptor populated by Initialize.
func (s *Source) Info() *signal.Info {
	return s.info
}

// Produce returns the next chunk of the recording, nil once exhausted.
func (s *Source) Produce(*graph.Node) (signal.Float64, error) {
	chunk := s.recording.Slice(s.pos, s.bufferSize)
	if chunk == nil && s.loop {
		s.pos = 0
		chunk = s.recording.Slice(s.pos, s.bufferSize)
	}
	s.pos += s.bufferSize
	return chunk, nil
}
