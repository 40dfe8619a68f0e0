package cli

import (
	"context"
	"errors"
	"io"

	"storefront/internal/storefront"

	"github.com/spf13/cobra"
)

var errSignedOut = errors.New("sign in first: favorites belong to a user")

// NewFavoritesCommand creates the favorites command group.
func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Manage the signed-in user's favorites",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add or remove a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				if app.Favorites.UserID() == "" {
					return errSignedOut
				}
				on, err := app.ToggleFavorite(args[0])
				if err != nil {
					return err
				}
				if on {
					return out.Message("added %s to favorites", args[0])
				}
				return out.Message("removed %s from favorites", args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				items := app.Favorites.List()
				return out.Emit(items, func(w io.Writer) { writeFavorites(w, items) })
			})
		},
	})

	return cmd
}
