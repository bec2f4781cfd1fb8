package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"verse-tui/internal/favorites"
)

// FavoritesFormats are the output formats of favorites list.
var FavoritesFormats = []string{"text", "json", "yaml"}

// NewFavoritesCommand creates the favorites command group.
func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage saved verses",
	}
	cmd.AddCommand(newFavoritesListCommand(rootOpts))
	cmd.AddCommand(newFavoritesRemoveCommand(rootOpts))
	return cmd
}

func newFavoritesListCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved verses, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(FavoritesFormats, format) {
				return fmt.Errorf("invalid format %q: must be one of %v", format, FavoritesFormats)
			}

			a, err := newApp(cmd, rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			favs, err := a.favs.Load()
			if err != nil {
				return fmt.Errorf("reading favorites: %w", err)
			}
			favorites.SortNewestFirst(favs)
			return writeFavorites(cmd.OutOrStdout(), format, favs)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|json|yaml)")
	return cmd
}

func writeFavorites(w io.Writer, format string, favs []favorites.Favorite) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(favs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(favs); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites yet.")
		return nil
	}
	for _, f := range favs {
		refColor.Fprint(w, f.Reference())
		noteColor.Fprintf(w, "  %s  %s\n", f.ID, f.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "  %s\n", f.Text)
	}
	return nil
}

func newFavoritesRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove KEY",
		Short:         "Remove a saved verse by key, e.g. JHN.3.16",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.orch.RemoveFavorite(args[0])
			if err != nil {
				return fmt.Errorf("removing favorite: %w", err)
			}
			if !removed {
				return fmt.Errorf("no favorite with key %q", args[0])
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
