package cmd

import (
	"io"

	"github.com/jsphweid/midimash/midi"
	"github.com/jsphweid/midimash/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarizes the tracks of a MIDI file",
	Long:  `Prints the resolution and per track event counts and ticks of a MIDI file as YAML.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd.OutOrStdout(), args[0])
	},
}

func inspect(w io.Writer, path string) error {
	seq, err := midi.Load(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(model.Summarize(seq))
}
