package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"verse-tui/internal/orchestrator"
)

var (
	refColor  = color.New(color.FgCyan, color.Bold)
	starColor = color.New(color.FgYellow)
	noteColor = color.New(color.FgHiBlack)
)

// NewDailyCommand creates the daily command.
func NewDailyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Print the verse of the day",
		Long: `Print today's verse from the default translation. When it cannot be
loaded a saved verse is printed instead and the reason is logged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			d := a.orch.DailyVerse(a.cfg.DefaultVersion)(cmd.Context())
			printDaily(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func printDaily(w io.Writer, d orchestrator.DailyView) {
	refColor.Fprintf(w, "%s %s:%s", d.Verse.Book, d.Verse.Chapter, d.Verse.Verse)
	if d.Favorite {
		starColor.Fprint(w, " ★")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, d.Verse.Text)
	if d.Fallback {
		noteColor.Fprintln(w, "(today's verse could not be loaded)")
	}
}
