package signal

import (
	"errors"
	"fmt"
)

// Info describes a signal stream: one label per channel, the sampling rate
// and markers for channels that carry no usable data. Every source node has
// to provide a valid Info before anything downstream may run.
type Info struct {
	Labels     []string
	SampleRate int
	Bad        []string
}

// ErrNoChannels is returned when a descriptor declares zero channels.
var ErrNoChannels = errors.New("signal info has no channels")

// NumChannels returns the number of declared channels.
func (i *Info) NumChannels() int {
	if i == nil {
		return 0
	}
	return len(i.Labels)
}

// Validate checks the descriptor for structural consistency.
func (i *Info) Validate() error {
	if i == nil {
		return errors.New("signal info is not set")
	}
	if len(i.Labels) == 0 {
		return ErrNoChannels
	}
	if i.SampleRate <= 0 {
		return fmt.Errorf("signal info has non-positive sample rate %d", i.SampleRate)
	}
	seen := make(map[string]struct{}, len(i.Labels))
	for _, l := range i.Labels {
		if l == "" {
			return errors.New("signal info has an empty channel label")
		}
		if _, ok := seen[l]; ok {
			return fmt.Errorf("signal info has duplicate channel label %q", l)
		}
		seen[l] = struct{}{}
	}
	for _, b := range i.Bad {
		if _, ok := seen[b]; !ok {
			return fmt.Errorf("signal info marks unknown channel %q as bad", b)
		}
	}
	return nil
}

// LabelsSnapshot reduces an Info to a comparable view of its channel layout.
// Info values are mutable, so drift tracking must not hold the live value.
type LabelsSnapshot struct {
	Labels     string
	SampleRate int
}

// Snapshot captures the channel layout of the descriptor.
func (i *Info) Snapshot() LabelsSnapshot {
	if i == nil {
		return LabelsSnapshot{}
	}
	var labels string
	for n, l := range i.Labels {
		if n > 0 {
			labels += ","
		}
		labels += l
	}
	return LabelsSnapshot{Labels: labels, SampleRate: i.SampleRate}
}
