package main

import (
	"flag"
	"fmt"

	"github.com/neurograph/graph"
	"github.com/neurograph/graph/envelope"
	"github.com/neurograph/graph/metric"
	"github.com/neurograph/graph/signal"
	"github.com/neurograph/graph/wav"
)

func init() {
	commands = append(commands, &envelopeCommand{})
}

type envelopeCommand struct {
	in     string
	out    string
	factor float64
	buffer int
}

func (cmd *envelopeCommand) Name() string {
	return "envelope"
}

func (cmd *envelopeCommand) Help() string {
	return "Extract the signal envelope of a wav file into another wav file"
}

func (cmd *envelopeCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.in, "in", "", "wav file to process (required)")
	fs.StringVar(&cmd.out, "out", "", "wav file to write the envelope to (required)")
	fs.Float64Var(&cmd.factor, "factor", 0.9, "exponential smoothing factor in (0;1)")
	fs.IntVar(&cmd.buffer, "buffer", 512, "chunk size in samples")
}

func (cmd *envelopeCommand) Run() error {
	if cmd.in == "" {
		return fmt.Errorf("missing -in required flag")
	}
	if cmd.out == "" {
		return fmt.Errorf("missing -out required flag")
	}

	src := wav.NewSource(cmd.in, cmd.buffer)
	defer src.Close()
	smoother, err := envelope.New(cmd.factor)
	if err != nil {
		return err
	}
	sink, err := wav.NewOutput(cmd.out, signal.BitDepth16)
	if err != nil {
		return err
	}

	p := graph.NewPipeline(graph.WithName("envelope"), graph.WithMetric())
	g := p.Graph()
	if err := p.SetSource(g.NewSource(src)); err != nil {
		return err
	}
	if err := p.AddProcessor(g.NewProcessor(smoother)); err != nil {
		return err
	}
	if err := p.AddOutput(g.NewOutput(sink), nil); err != nil {
		return err
	}
	if err := p.InitializeAll(); err != nil {
		return err
	}

	for {
		if err := p.Tick(); err != nil {
			return err
		}
		if p.Source().Output().Empty() {
			break
		}
	}
	if err := sink.Close(); err != nil {
		return err
	}
	fmt.Println(metric.GetAll())
	return nil
}
