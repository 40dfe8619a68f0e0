package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"storefront/internal/storefront"

	"github.com/spf13/cobra"
)

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}

	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartSetCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))
	cmd.AddCommand(newCartShowCommand(rootOpts))

	return cmd
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		qty   int
		size  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				if err := app.AddToCart(args[0], qty, size, color); err != nil {
					return err
				}
				return emitCart(app, out)
			})
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "quantity")
	cmd.Flags().StringVar(&size, "size", "", "size (default: first available)")
	cmd.Flags().StringVar(&color, "color", "", "color (default: first available)")

	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product's line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				app.Cart.RemoveItem(args[0])
				return emitCart(app, out)
			})
		},
	}
}

func newCartSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a line's quantity; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				app.Cart.UpdateQuantity(args[0], qty)
				return emitCart(app, out)
			})
		},
	}
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				app.Cart.Clear()
				return emitCart(app, out)
			})
		},
	}
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				return emitCart(app, out)
			})
		},
	}
}

func emitCart(app *storefront.App, out *OutputFormatter) error {
	s := app.Cart.State()
	return out.Emit(s, func(w io.Writer) { writeCart(w, s) })
}
