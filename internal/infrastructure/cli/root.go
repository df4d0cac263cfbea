package cli

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/medilogic/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The container is built lazily by
// the subcommands that need it, once --config and --debug are parsed.
func NewRootCmd(opts Options) *cobra.Command {
	rt := &commands.Runtime{Verbose: opts.Verbose}

	root := &cobra.Command{
		Use:   "medilogic",
		Short: "MediLogic - symptom intake for a rule-based diagnosis engine",
		Long: "MediLogic collects symptoms, allergies and chronic conditions, sends them to a\n" +
			"rule engine and presents the ranked matches as a table, chart and printable report.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rt.ConfigPath, "config", "", "Config file (default ~/.medilogic/config.yaml)")
	root.PersistentFlags().BoolVar(&rt.Verbose, "debug", opts.Verbose, "Enable verbose logging")

	root.AddCommand(
		commands.NewAnalyzeCommand(rt),
		commands.NewHistoryCommand(rt),
		commands.NewExportCommand(rt),
		commands.NewServeCommand(rt),
		commands.NewDoctorCommand(rt),
		commands.NewConfigCommand(rt),
		commands.NewVersionCommand(),
	)
	return root
}
