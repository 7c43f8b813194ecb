package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/picnic-web/internal/app"
	"github.com/samvad-hq/picnic-web/internal/config"
	"github.com/samvad-hq/picnic-web/internal/logger"
)

var configFlag string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "portal failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "portal",
		Short:         "Picnic web portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if configFlag != "" {
				return os.Setenv("CONFIG_FILE", configFlag)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file (yaml), overrides CONFIG_FILE")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the login page and user listing",
		RunE: func(*cobra.Command, []string) error {
			return serve()
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "users",
		Short: "Fetch the user listing once and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listUsers(cmd.Context(), cmd.OutOrStdout())
		},
	})
	return rootCmd
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("portal starting", "config", map[string]any{
		"app_env":      cfg.Env,
		"http_addr":    cfg.HTTPAddr,
		"api_base_url": cfg.APIBaseURL,
		"storage_type": cfg.StorageType,
		"log_level":    cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal, err := app.NewPortal(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize portal", "error", err.Error())
		return err
	}

	if err := portal.Run(ctx); err != nil {
		return fmt.Errorf("portal run: %w", err)
	}
	return nil
}

func listUsers(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	list, err := app.ListUsers(ctx, cfg, log)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
