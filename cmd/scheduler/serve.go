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
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jredh-dev/locci-scheduler/internal/handlers"
	"github.com/jredh-dev/locci-scheduler/internal/metrics"
	"github.com/jredh-dev/locci-scheduler/internal/scheduler"
	"github.com/jredh-dev/locci-scheduler/internal/server"
	"github.com/jredh-dev/locci-scheduler/internal/sms"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scheduler endpoint over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}

		sender, closeSender := newSender(cfg)
		dispatcher := sms.NewDispatcher(sender, logger)
		sched := scheduler.New(dispatcher, scheduler.DefaultSMS{
			Phone:    cfg.Default.Phone,
			Message:  cfg.Default.Message,
			SenderID: cfg.Default.SenderID,
		}, m)

		srv := server.New(logger, reg)
		srv.Mount(handlers.New(sched, logger, cfg.Server.MaxBodyBytes).Schedule)
		srv.OnStop(func() {
			if err := closeSender(); err != nil {
				logger.Warn("error closing SMS backend", zap.Error(err))
			}
		})

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger.Info("Locci Scheduler server initiated",
			zap.String("version", version),
			zap.String("backend", cfg.SMS.Backend))
		return srv.ListenAndServe(ctx, ":"+cfg.Server.Port)
	},
}
