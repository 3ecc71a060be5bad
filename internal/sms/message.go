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

// Package sms provides outbound SMS delivery through the Ujumbe SMS REST API or
// a Kafka outbox, and the Dispatcher that turns every send into a result value.
package sms

// OutboundMessage is the canonical schema for a single SMS. It is also the JSON
// record published on the sms-outbox Kafka topic.
//
//	{
//	  "id":        "550e8400-e29b-41d4-a716-446655440000",
//	  "to":        "254712345678",
//	  "body":      "Scheduled message from Locci Scheduler",
//	  "sender_id": "UjumbeSMS"
//	}
type OutboundMessage struct {
	// ID correlates the message across logs, the outbox and the relay.
	ID string `json:"id"`

	// To is the destination number as the provider expects it (e.g. "254712345678").
	To string `json:"to"`

	Body string `json:"body"`

	// SenderID is the registered alphanumeric sender shown to the recipient.
	SenderID string `json:"sender_id"`
}
