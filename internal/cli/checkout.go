package cli

import (
	"context"
	"fmt"
	"io"

	"storefront/internal/order"
	"storefront/internal/storefront"

	"github.com/spf13/cobra"
)

// NewCheckoutCommand places an order for the current cart.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		req    storefront.CheckoutRequest
		method string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Pay for the cart and place an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PaymentMethod = order.PaymentMethod(method)
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				res, err := app.Checkout(ctx, req)
				if err != nil {
					return err
				}
				return out.Emit(res, func(w io.Writer) {
					writeOrder(w, *res.Order)
					fmt.Fprintf(w, "payment   %s\n", res.Payment.Status)
					for _, step := range res.Payment.Instructions {
						fmt.Fprintf(w, "  - %s\n", step)
					}
				})
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.ShippingInfo.RecipientName, "name", "", "recipient name")
	f.StringVar(&req.ShippingInfo.Address, "address", "", "shipping address")
	f.StringVar(&req.ShippingInfo.Phone, "phone", "", "recipient phone")
	f.StringVar(&method, "payment", string(order.PaymentCOD), "cod|bank_transfer|wallet")
	f.Int64Var(&req.ShippingFee, "shipping-fee", 0, "shipping fee")

	return cmd
}
