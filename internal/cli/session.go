package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"storefront/internal/identity"
	"storefront/internal/storefront"

	"github.com/spf13/cobra"
)

// NewLoginCommand signs a user in, either by id or with a signed token.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name  string
		email string
		token string
	)

	cmd := &cobra.Command{
		Use:   "login [user-id]",
		Short: "Sign in as a user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" && len(args) == 0 {
				return errors.New("give a user id or --token")
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				if token != "" {
					u, err := app.Session.LoginWithToken(ctx, token)
					if err != nil {
						return err
					}
					return out.Message("signed in as %s", u.ID)
				}
				app.Session.Login(ctx, identity.User{ID: args[0], Name: name, Email: email})
				return out.Message("signed in as %s", args[0])
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&token, "token", "", "HS256 token signed with JWT_SECRET")

	return cmd
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				app.Session.Logout(ctx)
				return out.Message("signed out")
			})
		},
	}
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				u := app.Session.CurrentUser()
				return out.Emit(u, func(w io.Writer) {
					if u == nil {
						fmt.Fprintln(w, "signed out")
						return
					}
					fmt.Fprintln(w, u.ID)
				})
			})
		},
	}
}

// NewTokenCommand prints a signed login token for a user.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name  string
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a login token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				tok, err := app.Session.IssueToken(identity.User{ID: args[0], Name: name, Email: email}, ttl)
				if err != nil {
					return err
				}
				return out.Emit(map[string]string{"token": tok}, func(w io.Writer) {
					fmt.Fprintln(w, tok)
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().DurationVar(&ttl, "ttl", identity.DefaultTokenTTL, "token lifetime")

	return cmd
}
