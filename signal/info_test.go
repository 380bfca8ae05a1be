package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neurograph/graph/signal"
)

func TestInfoValidate(t *testing.T) {
	tests := []struct {
		name  string
		info  *signal.Info
		valid bool
	}{
		{
			name:  "nil descriptor",
			info:  nil,
			valid: false,
		},
		{
			name:  "no channels",
			info:  &signal.Info{SampleRate: 250},
			valid: false,
		},
		{
			name:  "no sample rate",
			info:  &signal.Info{Labels: []string{"Cz"}},
			valid: false,
		},
		{
			name:  "duplicate labels",
			info:  &signal.Info{Labels: []string{"Cz", "Cz"}, SampleRate: 250},
			valid: false,
		},
		{
			name:  "empty label",
			info:  &signal.Info{Labels: []string{"Cz", ""}, SampleRate: 250},
			valid: false,
		},
		{
			name:  "unknown bad channel",
			info:  &signal.Info{Labels: []string{"Cz"}, SampleRate: 250, Bad: []string{"Pz"}},
			valid: false,
		},
		{
			name:  "consistent",
			info:  &signal.Info{Labels: []string{"Cz", "Pz"}, SampleRate: 250, Bad: []string{"Pz"}},
			valid: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.info.Validate()
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestInfoSnapshotComparable(t *testing.T) {
	a := &signal.Info{Labels: []string{"Cz", "Pz"}, SampleRate: 250}
	b := &signal.Info{Labels: []string{"Cz", "Pz"}, SampleRate: 250, Bad: []string{"Pz"}}
	c := &signal.Info{Labels: []string{"Cz", "Oz"}, SampleRate: 250}

	// Bad-channel markers are transient and do not change the layout.
	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.NotEqual(t, a.Snapshot(), c.Snapshot())
	assert.NotEqual(t, a.Snapshot(), (&signal.Info{Labels: []string{"Cz", "Pz"}, SampleRate: 500}).Snapshot())
}
