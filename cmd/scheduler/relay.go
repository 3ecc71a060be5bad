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

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jredh-dev/locci-scheduler/internal/metrics"
	"github.com/jredh-dev/locci-scheduler/internal/sms"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Deliver messages queued on the sms-outbox topic",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if len(cfg.Kafka.Brokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for the relay")
		}

		m, err := metrics.New(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}

		relay := sms.NewRelay(cfg.Kafka.Brokers, newUjumbe(cfg), logger, m.ObserveRelay)
		defer func() {
			if err := relay.Close(); err != nil {
				logger.Warn("error closing relay", zap.Error(err))
			}
		}()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger.Info("relay starting", zap.Strings("brokers", cfg.Kafka.Brokers))
		if err := relay.Run(ctx); err != nil {
			return err
		}
		logger.Info("relay shutdown complete")
		return nil
	},
}
