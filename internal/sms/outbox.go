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
	kafka "github.com/segmentio/kafka-go"
)

const (
	// OutboxTopic is where messages are published for the relay to deliver.
	OutboxTopic = "sms-outbox"

	// DLQTopic receives outbox records the relay could not deliver so they can be
	// inspected and replayed by hand.
	DLQTopic = "sms-dlq"
)

// messageWriter is the subset of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxSender publishes messages to the sms-outbox topic instead of calling
// the provider. Delivery happens later in the relay.
type OutboxSender struct {
	writer messageWriter
}

// NewOutboxSender creates an OutboxSender writing to the given brokers.
func NewOutboxSender(brokers []string) *OutboxSender {
	return &OutboxSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        OutboxTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

type queuedResponse struct {
	Queued bool   `json:"queued"`
	ID     string `json:"id"`
	Topic  string `json:"topic"`
}

// Send publishes msg keyed by its ID. A missing ID is filled with a new UUID.
func (s *OutboxSender) Send(ctx context.Context, msg OutboundMessage) (json.RawMessage, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	value, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	if err := s.writer.WriteMessages(ctx, kafka.Message{Key: []byte(msg.ID), Value: value}); err != nil {
		return nil, fmt.Errorf("publish to %s: %w", OutboxTopic, err)
	}

	out, err := json.Marshal(queuedResponse{Queued: true, ID: msg.ID, Topic: OutboxTopic})
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return out, nil
}

// Close flushes and releases the Kafka writer.
func (s *OutboxSender) Close() error {
	return s.writer.Close()
}
