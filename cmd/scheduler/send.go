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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jredh-dev/locci-scheduler/internal/sms"
)

var sendFlags struct {
	to     string
	sender string
}

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send one SMS through the configured backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		to := sendFlags.to
		if to == "" {
			to = cfg.Default.Phone
		}
		senderID := sendFlags.sender
		if senderID == "" {
			senderID = cfg.Default.SenderID
		}

		sender, closeSender := newSender(cfg)
		defer closeSender() //nolint:errcheck

		out := sms.NewDispatcher(sender, logger).Send(cmd.Context(), to, args[0], senderID)
		fmt.Fprintln(cmd.OutOrStdout(), string(out.Payload()))
		if !out.OK() {
			return fmt.Errorf("send failed: %s", out.Err)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendFlags.to, "to", "", "destination phone number (defaults to DEFAULT_SMS_PHONE)")
	sendCmd.Flags().StringVar(&sendFlags.sender, "sender", "", "sender id (defaults to DEFAULT_SMS_SENDER)")
}
