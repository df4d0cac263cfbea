package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/infrastructure/cli/helpers"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand(rt *Runtime) *cobra.Command {
	var (
		symptoms  []string
		allergies string
		chronic   string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Send symptoms to the rule engine and print the matches",
		Example: `  medilogic analyze --symptom fiebre=severo --symptom tos --allergies "penicilina"
  medilogic analyze --symptom dolor_cabeza=moderado --chronic "asma, diabetes"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}

			form, err := helpers.FormFromFlags(symptoms, allergies, chronic, container.Config.Vocabulary)
			if err != nil {
				return err
			}

			term := helpers.NewTerminal(cmd.OutOrStdout(), container.Config.Vocabulary)
			controller, closeFn, err := helpers.OpenController(ctx, container, sessionID, term)
			if err != nil {
				return err
			}
			defer closeFn()

			term.WriteForm(form)
			if _, err := controller.Submit(ctx); err != nil {
				return ErrReported
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&symptoms, FlagSymptom, "s", nil, "Symptom as name[=severity]; repeatable")
	cmd.Flags().StringVar(&allergies, FlagAllergies, "", "Comma-separated allergies")
	cmd.Flags().StringVar(&chronic, FlagChronic, "", "Comma-separated chronic conditions")
	cmd.Flags().StringVar(&sessionID, FlagSession, domain.DefaultCLISession, "History session to record into")
	return cmd
}
