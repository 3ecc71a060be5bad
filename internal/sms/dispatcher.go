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

package sms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is the result of one send. Exactly one of Response or Err is set.
type Outcome struct {
	Response json.RawMessage
	Err      string
}

// OK reports whether the provider accepted the message.
func (o Outcome) OK() bool {
	return o.Err == ""
}

// Payload is the value reported to callers: the provider response on success,
// or {"error": "..."} on failure.
func (o Outcome) Payload() json.RawMessage {
	if o.OK() {
		return o.Response
	}
	b, _ := json.Marshal(map[string]string{"error": o.Err})
	return b
}

// Dispatcher wraps a Sender so that sends never return errors to the caller.
type Dispatcher struct {
	sender Sender
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher over sender.
func NewDispatcher(sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// Send delivers one message. Every failure is captured in the Outcome. A
// success payload that is not valid JSON counts as a failure so the response
// envelope can always be encoded.
func (d *Dispatcher) Send(ctx context.Context, phone, message, senderID string) Outcome {
	msg := OutboundMessage{
		ID:       uuid.New().String(),
		To:       phone,
		Body:     message,
		SenderID: senderID,
	}
	logger := d.logger.With(zap.String("sms_id", msg.ID), zap.String("to", phone))

	logger.Info("attempting to send SMS")
	logger.Debug("SMS details", zap.String("sender_id", senderID), zap.Int("message_length", len(message)))

	resp, err := d.sender.Send(ctx, msg)
	if err != nil {
		desc := err.Error()
		if desc == "" {
			desc = fmt.Sprintf("send failed (%T)", err)
		}
		return Outcome{Err: desc}
	}
	if len(resp) == 0 {
		resp = json.RawMessage("null")
	}
	if !json.Valid(resp) {
		logger.Error("SMS backend returned invalid JSON", zap.Int("bytes", len(resp)))
		return Outcome{Err: "SMS backend returned an invalid JSON response"}
	}

	logger.Info("SMS sent successfully")
	logger.Debug("SMS response", zap.ByteString("response", resp))
	return Outcome{Response: resp}
}
