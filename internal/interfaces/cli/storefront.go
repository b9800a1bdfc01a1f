package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/application/cart"
	"github.com/merrysway/storefront/internal/application/storefront"
	"github.com/merrysway/storefront/internal/infrastructure/storefrontapi"
)

const flushTimeout = 5 * time.Second

// StorefrontOptions holds the flags of the storefront shell
type StorefrontOptions struct {
	ServerURL string
}

// NewStorefrontCommand creates the root command of the storefront shell
func NewStorefrontCommand() *cobra.Command {
	rootOpts := &RootOptions{}
	opts := &StorefrontOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Merry's Way storefront shell",
		Long: `An interactive storefront: browse the menu, build a cart that is kept in
sync with your order on the server, and talk to the ordering assistant.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStorefront(cmd, rootOpts, opts)
		},
	}
	addRootFlags(cmd, rootOpts, "warn")
	cmd.Flags().StringVar(&opts.ServerURL, "server", "", "storefront API base URL (overrides client.base_url)")
	return cmd
}

func runStorefront(cmd *cobra.Command, rootOpts *RootOptions, opts *StorefrontOptions) error {
	cfg, log, err := rootOpts.load()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	baseURL := cfg.Client.BaseURL
	if opts.ServerURL != "" {
		baseURL = opts.ServerURL
	}
	client, err := storefrontapi.NewClient(storefrontapi.Config{
		BaseURL: baseURL,
		Timeout: cfg.Client.Timeout,
	}, storefrontapi.NewSession(), log)
	if err != nil {
		return err
	}

	engineCfg := cart.DefaultConfig()
	if cfg.Client.DebounceWindow > 0 {
		engineCfg.DebounceWindow = cfg.Client.DebounceWindow
	}
	if cfg.Client.Timeout > 0 {
		engineCfg.RequestTimeout = cfg.Client.Timeout
	}
	engine := cart.NewEngine(client.Orders(), client.Products(), engineCfg,
		cart.WithLogger(log),
		cart.WithMeter(otel.GetMeterProvider().Meter("storefront/cart")),
	)

	front := storefront.New(storefront.Dependencies{
		Auth:      client.Auth(),
		Assistant: client.Chat(),
		Catalog:   client.Products(),
		Orders:    client.Orders(),
		Engine:    engine,
		Logger:    log,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		front.Close(ctx)
	}()

	log.Debug("Storefront shell started", zap.String("server", baseURL))
	return NewShell(front, cmd.OutOrStdout(), log).Run(cmd.Context(), cmd.InOrStdin())
}
