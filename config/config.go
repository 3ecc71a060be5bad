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

// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredential is returned by Load when a required provider secret is
// not set. Callers must treat it as fatal before serving any traffic.
var ErrMissingCredential = errors.New("missing required credential")

// Backend names accepted by SMS_BACKEND.
const (
	BackendUjumbe = "ujumbe"
	BackendKafka  = "kafka"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Ujumbe  UjumbeConfig
	SMS     SMSConfig
	Kafka   KafkaConfig
	Default DefaultSMSConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	MaxBodyBytes int64 // larger request bodies are rejected with 413
}

type LogConfig struct {
	Level string
}

// UjumbeConfig holds the provider credentials. It is read-only after Load and
// shared by every request.
type UjumbeConfig struct {
	APIKey  string
	Email   string
	BaseURL string
	Timeout time.Duration
}

type SMSConfig struct {
	Backend string // "ujumbe" or "kafka"
}

type KafkaConfig struct {
	Brokers []string
}

// DefaultSMSConfig is the scheduled message sent when a request carries no data.
type DefaultSMSConfig struct {
	Phone    string
	Message  string
	SenderID string
}

// Load returns application configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", getEnv("SERVICE_PORT", "8080")),
			Env:          getEnv("ENV", "development"),
			MaxBodyBytes: getEnvInt64("MAX_BODY_BYTES", 8<<20),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Ujumbe: UjumbeConfig{
			APIKey:  os.Getenv("UJUMBESMS_API_KEY"),
			Email:   os.Getenv("UJUMBESMS_EMAIL"),
			BaseURL: getEnv("UJUMBESMS_BASE_URL", "https://ujumbesms.co.ke"),
			Timeout: getEnvDuration("UJUMBESMS_TIMEOUT", 15*time.Second),
		},
		SMS: SMSConfig{
			Backend: strings.ToLower(getEnv("SMS_BACKEND", BackendUjumbe)),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
		},
		Default: DefaultSMSConfig{
			Phone:    getEnv("DEFAULT_SMS_PHONE", "254717135176"),
			Message:  getEnv("DEFAULT_SMS_MESSAGE", "Scheduled message from Locci Scheduler"),
			SenderID: getEnv("DEFAULT_SMS_SENDER", "UjumbeSMS"),
		},
	}

	if cfg.Ujumbe.APIKey == "" {
		return nil, fmt.Errorf("UJUMBESMS_API_KEY: %w", ErrMissingCredential)
	}
	if cfg.Ujumbe.Email == "" {
		return nil, fmt.Errorf("UJUMBESMS_EMAIL: %w", ErrMissingCredential)
	}

	switch cfg.SMS.Backend {
	case BackendUjumbe:
	case BackendKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when SMS_BACKEND=kafka")
		}
	default:
		return nil, fmt.Errorf("unknown SMS_BACKEND %q", cfg.SMS.Backend)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
