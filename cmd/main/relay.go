package main

import (
	"context"
	"fmt"
	"time"

	"easykaiko/src/config"
	"easykaiko/src/grpc_control"
	"easykaiko/src/kaiko"
	"easykaiko/src/logger"
	"easykaiko/src/publishers"
	"easykaiko/src/relay"
	"easykaiko/src/serializers"

	"github.com/spf13/cobra"
)

var relayCmdConfig string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay the configured streams to NATS",
	Long:  "Subscribe to every stream of the config file and publish each message to NATS until interrupted",
	Args:  cobra.NoArgs,
	RunE:  relayMain,
}

func relayMain(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewConfig(relayCmdConfig)
	if err != nil {
		return err
	}

	appLogger := logger.NewLogger(cfg, cfg.Name)

	apiKey, err := cfg.APIKey()
	if err != nil {
		return err
	}

	client := kaiko.NewClient(apiKey,
		kaiko.WithRegion(cfg.Region),
		kaiko.WithGateway(cfg.Gateway),
		kaiko.WithLogger(appLogger),
	)

	serializer, err := serializers.New(cfg.NATS.Serializer)
	if err != nil {
		return err
	}
	publisher := publishers.NewNATSPublisher(&cfg.NATS, appLogger, serializer)

	relayService := relay.NewRelay(cfg, appLogger, client, publisher)
	if err := relayService.Start(); err != nil {
		appLogger.Critical("failed to start relay: %v", err)
		return err
	}
	defer relayService.Stop()

	if cfg.GRPC_Port != 0 {
		healthService, err := grpc_control.NewGRPCService(cfg, appLogger, relayService)
		if err != nil {
			appLogger.Critical("failed to create health service: %v", err)
			return err
		}
		if err := healthService.Start(); err != nil {
			return fmt.Errorf("failed to start health service: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			healthService.Stop(ctx)
		}()
	}

	appLogger.Info("%s running %d streams. Press Ctrl+C to stop.", cfg.Name, len(cfg.Streams))
	<-cmd.Context().Done()
	appLogger.Info("shutting down...")
	return nil
}

func init() {
	relayCmd.Flags().StringVarP(&relayCmdConfig, "config", "c", "config/default.yaml", "path to config file")

	rootCmd.AddCommand(relayCmd)
}
