package cli

import (
	"context"
	"fmt"
	"io"

	"storefront/internal/storefront"

	"github.com/spf13/cobra"
)

// NewOrdersCommand creates the order history command group.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Read the order history",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				orders := app.Orders.ListOrders()
				return out.Emit(orders, func(w io.Writer) {
					if len(orders) == 0 {
						fmt.Fprintln(w, "no orders")
						return
					}
					for _, o := range orders {
						writeOrderLine(w, o)
					}
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <order-id>",
		Short: "Print one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				o, err := app.Orders.Get(args[0])
				if err != nil {
					return err
				}
				return out.Emit(o, func(w io.Writer) { writeOrder(w, *o) })
			})
		},
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear order history without --yes")
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				app.Orders.Clear()
				return out.Message("order history cleared")
			})
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	cmd.AddCommand(clearCmd)

	return cmd
}
