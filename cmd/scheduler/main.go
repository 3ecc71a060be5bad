// locci-scheduler - SMS scheduling endpoint
// Copyright (C) 2026  locci-scheduler contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// scheduler hosts the Locci Scheduler SMS endpoint and its Kafka relay.
//
// Configuration is done entirely via environment variables:
//
//	UJUMBESMS_API_KEY   Ujumbe SMS API key (required)
//	UJUMBESMS_EMAIL     Ujumbe SMS account email (required)
//	SMS_BACKEND         "ujumbe" (default) or "kafka"
//	KAFKA_BROKERS       comma-separated broker list, e.g. "kafka:9092"
//	PORT                listen port (default 8080)
//	LOG_LEVEL           debug, info, warn or error (default info)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jredh-dev/locci-scheduler/config"
	"github.com/jredh-dev/locci-scheduler/internal/logging"
	"github.com/jredh-dev/locci-scheduler/internal/sms"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "scheduler",
	Short:         "Locci Scheduler SMS endpoint",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, relayCmd, sendCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scheduler: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and the logger. A missing credential stops
// the command before anything is served.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newSender returns the configured backend and a function releasing it.
func newSender(cfg *config.Config) (sms.Sender, func() error) {
	if cfg.SMS.Backend == config.BackendKafka {
		outbox := sms.NewOutboxSender(cfg.Kafka.Brokers)
		return outbox, outbox.Close
	}
	return newUjumbe(cfg), func() error { return nil }
}

func newUjumbe(cfg *config.Config) *sms.UjumbeSender {
	return sms.NewUjumbeSender(cfg.Ujumbe.APIKey, cfg.Ujumbe.Email, cfg.Ujumbe.BaseURL, cfg.Ujumbe.Timeout)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "locci-scheduler %s\n", version)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Built: %s\n", buildDate)
	},
}
