package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewTranslationsCommand creates the translations command.
func NewTranslationsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "translations",
		Short:         "List the translations offered by the reader",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ts, err := a.orch.LoadTranslations()(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing translations: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tABBR\tNAME")
			for _, t := range ts {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Label(), t.Name)
			}
			return tw.Flush()
		},
	}
}
