package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/midimash/mash"
	"github.com/jsphweid/midimash/midi"
	"github.com/jsphweid/midimash/util"
	"github.com/spf13/cobra"
)

var (
	mashWeight int
	mashOut    string
	mashSeed   uint64
)

func init() {
	mashCmd.Flags().IntVarP(&mashWeight, "weight", "w", 0, "chance in percent (1-100) that an event is swapped")
	mashCmd.Flags().StringVarP(&mashOut, "out", "o", "", "output file (default: a new file in OUT_DIR)")
	mashCmd.Flags().Uint64Var(&mashSeed, "seed", 0, "random seed, overrides MASH_SEED")
	mashCmd.MarkFlagRequired("weight")
	rootCmd.AddCommand(mashCmd)
}

var mashCmd = &cobra.Command{
	Use:   "mash <first> <second>",
	Short: "Mashes two MIDI files into a new file",
	Long: `Mashes two MIDI files into a new file. Events of the first file are
replaced with the events at the same positions in the second file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		seed := cfg.Seed
		if cmd.Flags().Changed("seed") {
			seed = mashSeed
		}

		out := mashOut
		if out == "" {
			if err := util.EnsureOutputDir(cfg.OutDir); err != nil {
				return err
			}
			out = filepath.Join(cfg.OutDir, "mash-"+uuid.New().String()+".mid")
		}

		res, err := mashFiles(args[0], args[1], out, mashWeight, mash.NewSource(seed))
		if err != nil {
			return err
		}
		log.Info("mashed", "first", args[0], "second", args[1], "out", out,
			"weight", mashWeight, "eligible", res.Eligible, "swapped", res.Swapped)
		fmt.Fprintf(cmd.OutOrStdout(), "Mashed %v and %v into %v\n", args[0], args[1], out)
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func printResult(w io.Writer, res mash.Result) {
	for i, tr := range res.Tracks {
		fmt.Fprintf(w, "track %d: %d of %d events swapped\n", i, tr.Swapped, tr.Eligible)
	}
	fmt.Fprintf(w, "total: %d of %d events swapped\n", res.Swapped, res.Eligible)
}

func mashFiles(firstPath, secondPath, outPath string, weight int, src mash.Source) (mash.Result, error) {
	first, err := midi.Load(firstPath)
	if err != nil {
		return mash.Result{}, err
	}
	second, err := midi.Load(secondPath)
	if err != nil {
		return mash.Result{}, err
	}
	res, err := mash.Swap(first, second, weight, src)
	if err != nil {
		return res, err
	}
	return res, midi.WriteFile(outPath, first)
}
