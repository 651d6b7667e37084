package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"harvest-timer/internal/app"
	"harvest-timer/internal/config"
	"harvest-timer/internal/version"
)

// state is populated by the root command before any subcommand runs.
type state struct {
	configPath string
	verbose    bool

	log *slog.Logger
	cfg config.Config
	app *app.App
}

// NewRootCmd creates the top-level "harvest-timer" command. Logs go to
// logOut so command output on stdout stays machine-readable.
func NewRootCmd(logOut io.Writer) *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:           "harvest-timer",
		Short:         "Start, stop and resume Harvest timers",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if st.verbose {
				level = slog.LevelDebug
			}
			st.log = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(st.log)
			if cmd.Annotations["skip-config"] == "true" {
				return nil
			}

			cfg, err := config.Load(st.configPath)
			if err != nil {
				return err
			}
			st.cfg = cfg
			st.app = app.New(st.log, cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "Credential file (JSON or YAML, default: $HARVEST_CONFIG or config.json)")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newStatusCmd(st),
		newProjectsCmd(st),
		newStartCmd(st),
		newStopCmd(st),
		newResumeCmd(st),
		newServeCmd(st),
		newTokenCmd(st),
	)
	return root
}
