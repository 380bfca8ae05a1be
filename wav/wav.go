// Package wav provides file-backed graph components: a source that streams a
// wav file chunk by chunk and an output that records the stream to a wav file.
package wav

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/signal"
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

const wavFormat = 1

// Source streams a wav file. The file is opened on initialization, so a path
// change resolves into a reopen on the next update.
type Source struct {
	graph.Attached

	path       string
	bufferSize int

	file    *os.File
	decoder *wav.Decoder
	ints    *audio.IntBuffer
	info    *signal.Info
}

// NewSource returns a source streaming the wav file at path in bufferSize
// chunks.
func NewSource(path string, bufferSize int) *Source {
	return &Source{path: path, bufferSize: bufferSize}
}

// SetPath assigns a new file path and schedules a reset.
func (s *Source) SetPath(path string) {
	s.path = path
	s.MarkResetNeeded()
}

// Initialize opens the file and populates the descriptor from its header.
func (s *Source) Initialize(*graph.Node) error {
	if err := s.Close(); err != nil {
		return err
	}
	if s.bufferSize <= 0 {
		return fmt.Errorf("%w: buffer size must be positive, got %d", graph.ErrInvalidValue, s.bufferSize)
	}
	file, err := os.Open(s.path)
	if err != nil {
		return err
	}
	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		_ = file.Close()
		return fmt.Errorf("%w: %s is not a valid wav file", graph.ErrInvalidValue, s.path)
	}
	bitDepth := signal.BitDepth(decoder.BitDepth)
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		_ = file.Close()
		return ErrUnsupportedBitDepth
	}

	format := decoder.Format()
	labels := make([]string, format.NumChannels)
	for i := range labels {
		labels[i] = fmt.Sprintf("ch%d", i+1)
	}
	s.file = file
	s.decoder = decoder
	s.ints = &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, s.bufferSize*format.NumChannels),
		SourceBitDepth: int(decoder.BitDepth),
	}
	s.info = &signal.Info{
		Labels:     labels,
		SampleRate: int(decoder.SampleRate),
	}
	return nil
}

// Info returns the descriptor populated by Initialize.
func (s *Source) Info() *signal.Info {
	return s.info
}

// Produce reads the next chunk from the file, nil at the end of the file.
func (s *Source) Produce(*graph.Node) (signal.Float64, error) {
	read, err := s.decoder.PCMBuffer(s.ints)
	if err != nil {
		return nil, err
	}
	if read == 0 {
		return nil, nil
	}
	return signal.InterInt{
		Data:        s.ints.Data[:read],
		NumChannels: s.ints.Format.NumChannels,
		BitDepth:    signal.BitDepth(s.ints.SourceBitDepth),
	}.AsFloat64(), nil
}

// Close releases the underlying file. The source can be initialized again
// afterwards.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.decoder = nil
	return err
}

// Output records the stream to a wav file. Invalidated history truncates the
// file: what was written is no continuation of what comes next.
type Output struct {
	graph.Attached

	path     string
	bitDepth signal.BitDepth

	sampleRate  int
	numChannels int
	file        *os.File
	encoder     *wav.Encoder
	ints        *audio.IntBuffer
}

// NewOutput returns an output writing the stream to the wav file at path.
func NewOutput(path string, bitDepth signal.BitDepth) (*Output, error) {
	if bitDepth != signal.BitDepth16 && bitDepth != signal.BitDepth32 {
		return nil, ErrUnsupportedBitDepth
	}
	return &Output{path: path, bitDepth: bitDepth}, nil
}

// Initialize resolves the upstream descriptor and starts a fresh file.
func (o *Output) Initialize(n *graph.Node) error {
	info, err := n.UpstreamInfo()
	if err != nil {
		return err
	}
	o.sampleRate = info.SampleRate
	o.numChannels = info.NumChannels()
	return o.restart()
}

// Tracked declares that a change of the upstream channel layout requires
// reinitialization.
func (o *Output) Tracked() []graph.TrackedAttr {
	return graph.TrackInfo()
}

// Consume encodes the buffer into the file.
func (o *Output) Consume(_ *graph.Node, in signal.Float64) error {
	o.ints.Data = in.AsInterInt(o.bitDepth)
	return o.encoder.Write(o.ints)
}

// FlushHistory starts the file over.
func (o *Output) FlushHistory(*graph.Node) error {
	return o.restart()
}

// Close finalizes the wav header and closes the file. The output is not
// usable afterwards until reinitialized.
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	err := o.encoder.Close()
	if closeErr := o.file.Close(); err == nil {
		err = closeErr
	}
	o.file = nil
	o.encoder = nil
	return err
}

func (o *Output) restart() error {
	if err := o.Close(); err != nil {
		return err
	}
	file, err := os.Create(o.path)
	if err != nil {
		return err
	}
	o.file = file
	o.encoder = wav.NewEncoder(file, o.sampleRate, int(o.bitDepth), o.numChannels, wavFormat)
	o.ints = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: o.numChannels,
			SampleRate:  o.sampleRate,
		},
		SourceBitDepth: int(o.bitDepth),
	}
	return nil
}
