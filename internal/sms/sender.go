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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const ujumbeMessagingPath = "/api/messaging"

// Sender is the interface any SMS backend must implement. The returned payload
// is the backend's response, kept opaque so it can be echoed to callers.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) (json.RawMessage, error)
}

// ProviderError is returned when the provider answers but rejects the message.
type ProviderError struct {
	StatusCode  int
	Description string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ujumbe returned %d: %s", e.StatusCode, e.Description)
}

// UjumbeSender sends messages through the Ujumbe SMS REST API using stdlib
// net/http only.
type UjumbeSender struct {
	apiKey     string
	email      string
	baseURL    string
	httpClient *http.Client
}

// NewUjumbeSender creates a UjumbeSender. baseURL is the API root, e.g.
// "https://ujumbesms.co.ke". A zero timeout falls back to 15 seconds.
func NewUjumbeSender(apiKey, email, baseURL string, timeout time.Duration) *UjumbeSender {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &UjumbeSender{
		apiKey:     apiKey,
		email:      email,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ujumbeRequest is the JSON body sent to POST /api/messaging.
type ujumbeRequest struct {
	Data []ujumbeBag `json:"data"`
}

type ujumbeBag struct {
	MessageBag ujumbeMessageBag `json:"message_bag"`
}

type ujumbeMessageBag struct {
	Numbers string `json:"numbers"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

// ujumbeResponse captures just the status block used to detect rejections.
type ujumbeResponse struct {
	Status struct {
		Code        string `json:"code"`
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"status"`
}

// Send posts msg to Ujumbe and returns the raw JSON response. It returns a
// non-nil error if the HTTP request fails, the status is not 2xx, or the body
// reports a non-success status.
func (s *UjumbeSender) Send(ctx context.Context, msg OutboundMessage) (json.RawMessage, error) {
	body, err := json.Marshal(ujumbeRequest{
		Data: []ujumbeBag{{MessageBag: ujumbeMessageBag{
			Numbers: msg.To,
			Message: msg.Body,
			Sender:  msg.SenderID,
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+ujumbeMessagingPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Authorization", s.apiKey)
	req.Header.Set("email", s.email)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Description: describe(respBody)}
	}

	var parsed ujumbeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if t := parsed.Status.Type; t != "" && !strings.EqualFold(t, "success") {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Description: parsed.Status.Description}
	}

	return json.RawMessage(respBody), nil
}

// describe prefers the provider's status description and falls back to the
// trimmed raw body.
func describe(body []byte) string {
	var parsed ujumbeResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Status.Description != "" {
		return parsed.Status.Description
	}
	return strings.TrimSpace(string(body))
}
