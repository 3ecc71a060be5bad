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

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageReader is the subset of *kafka.Reader used by the Relay.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RelayObserver is notified of each relayed record's outcome ("sent",
// "failed" or "malformed").
type RelayObserver func(outcome string)

// Relay reads OutboundMessages from the sms-outbox topic and delivers each one
// through a Sender exactly once. Failures are written to sms-dlq and the
// offset is committed either way, so the relay never stalls on a bad record.
type Relay struct {
	reader  messageReader
	dlq     messageWriter
	sender  Sender
	logger  *zap.Logger
	observe RelayObserver
}

// NewRelay creates a Relay connected to the given Kafka brokers.
func NewRelay(brokers []string, sender Sender, logger *zap.Logger, observe RelayObserver) *Relay {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          OutboxTopic,
		GroupID:        "locci-scheduler-sms-relay",
		MinBytes:       1,
		MaxBytes:       1 << 20, // 1 MiB
		CommitInterval: 0,       // explicit commits only
		StartOffset:    kafka.LastOffset,
	})

	dlq := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        DLQTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return newRelay(reader, dlq, sender, logger, observe)
}

func newRelay(reader messageReader, dlq messageWriter, sender Sender, logger *zap.Logger, observe RelayObserver) *Relay {
	if observe == nil {
		observe = func(string) {}
	}
	return &Relay{
		reader:  reader,
		dlq:     dlq,
		sender:  sender,
		logger:  logger,
		observe: observe,
	}
}

// Run blocks, relaying messages until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("relay consuming", zap.String("topic", OutboxTopic))

	for {
		m, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch: %w", err)
		}

		outcome := r.relay(ctx, m)
		r.observe(outcome)

		if err := r.reader.CommitMessages(ctx, m); err != nil {
			r.logger.Warn("commit failed, message may be redelivered", zap.Error(err))
		}
	}
}

// Close releases all Kafka resources.
func (r *Relay) Close() error {
	rerr := r.reader.Close()
	werr := r.dlq.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

func (r *Relay) relay(ctx context.Context, m kafka.Message) string {
	var msg OutboundMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		r.logger.Warn("malformed outbox record", zap.ByteString("key", m.Key), zap.Error(err))
		r.sendToDLQ(ctx, m)
		return "malformed"
	}

	if _, err := r.sender.Send(ctx, msg); err != nil {
		r.logger.Error("relay send failed",
			zap.String("id", msg.ID),
			zap.String("to", msg.To),
			zap.Error(err))
		r.sendToDLQ(ctx, m)
		return "failed"
	}

	r.logger.Info("relay sent", zap.String("id", msg.ID), zap.String("to", msg.To))
	return "sent"
}

func (r *Relay) sendToDLQ(ctx context.Context, original kafka.Message) {
	err := r.dlq.WriteMessages(ctx, kafka.Message{
		Key:   original.Key,
		Value: original.Value,
	})
	if err != nil {
		r.logger.Error("could not write to DLQ", zap.ByteString("key", original.Key), zap.Error(err))
	}
}
