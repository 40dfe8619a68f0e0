package cli

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/storefront"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Opener builds the App a command works on. reg receives the app's metrics.
type Opener func(ctx context.Context, reg prometheus.Registerer) (*storefront.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	open Opener
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the storefront CLI working on the configured store.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(OpenFromEnv)
}

// NewRootCommandWith creates the CLI with a custom App opener.
func NewRootCommandWith(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the catalog, manage cart and favorites, place orders",
		Long: `A storefront client whose cart, favorites and order history are kept
in a local store (file, SQLite, Postgres or Redis; see STORE_DRIVER).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log metrics after the command")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))

	return cmd
}

// OpenFromEnv loads the configuration from the environment and opens the
// App it describes.
func OpenFromEnv(ctx context.Context, reg prometheus.Registerer) (*storefront.App, error) {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)

	return storefront.New(ctx, storefront.Deps{
		Config:  cfg,
		Logger:  logger.L(),
		Metrics: metrics.New(reg),
	})
}

// withApp opens the App, runs fn and always shuts the App down so pending
// writes reach the store even when fn fails.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *storefront.App, out *OutputFormatter) error) (err error) {
	ctx := logger.WithSessionID(cmd.Context(), logger.NewSessionID())
	reg := prometheus.NewRegistry()

	app, err := o.open(ctx, reg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Shutdown(ctx); cerr != nil && err == nil {
			err = cerr
		}
		if o.Verbose {
			reportMetrics(logger.FromCtx(ctx), reg)
		}
		logger.Sync()
	}()

	out := &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
	return fn(ctx, app, out)
}

// reportMetrics logs every non-zero counter of reg.
func reportMetrics(log *zap.Logger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		log.Warn("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()),
				)
			default:
				continue
			}
			log.Info("metric", fields...)
		}
	}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
