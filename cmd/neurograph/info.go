package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/neurograph/graph/wav"
)

func init() {
	commands = append(commands, &infoCommand{})
}

type infoCommand struct {
	in string
}

func (cmd *infoCommand) Name() string {
	return "info"
}

func (cmd *infoCommand) Help() string {
	return "Show the stream descriptor of a wav file"
}

func (cmd *infoCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.in, "in", "", "wav file to inspect (required)")
}

func (cmd *infoCommand) Run() error {
	if cmd.in == "" {
		return fmt.Errorf("missing -in required flag")
	}
	src := wav.NewSource(cmd.in, 512)
	if err := src.Initialize(nil); err != nil {
		return err
	}
	defer src.Close()
	info := src.Info()
	fmt.Printf("Channels:    %d (%s)\n", info.NumChannels(), strings.Join(info.Labels, ", "))
	fmt.Printf("Sample rate: %d Hz\n", info.SampleRate)
	return nil
}
