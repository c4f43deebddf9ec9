package cmd

import (
	"context"
	"log/slog"

	"github.com/jsphweid/midimash/config"
	"github.com/jsphweid/midimash/mash"
	"github.com/jsphweid/midimash/player"
	"github.com/jsphweid/midimash/shell"
	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "midimash",
	Short: "Mixes two MIDI files at random",
	Long: `midimash loads two MIDI files and randomly replaces events of the first
with the events at the same positions in the second. Without a subcommand it
starts an interactive session.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		return interactive(cmd, cfg, log)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	level := cfg.Level()
	if debug {
		level = slog.LevelDebug
	}
	log := config.NewLogger(level)
	slog.SetDefault(log)
	return cfg, log, nil
}

func interactive(cmd *cobra.Command, cfg config.Config, log *slog.Logger) error {
	opts := shell.Options{
		Config: cfg,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Logger: log,
		Source: mash.NewSource(cfg.Seed),
	}

	out, closeDevice, err := openOutput(cfg.OutPort)
	if err != nil {
		log.Warn("midi output unavailable, playback disabled", "port", cfg.OutPort, "err", err)
	} else {
		defer closeDevice()
		opts.Sequencer = player.New(out, log)
	}

	app := shell.New(opts)
	defer app.Close()
	return app.Run(cmd.Context())
}
