package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jredh-dev/locci-scheduler/config"
	"github.com/jredh-dev/locci-scheduler/internal/sms"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if !strings.Contains(out.String(), "locci-scheduler dev") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestNewSender(t *testing.T) {
	cfg := &config.Config{
		SMS:    config.SMSConfig{Backend: config.BackendUjumbe},
		Ujumbe: config.UjumbeConfig{APIKey: "k", Email: "e", BaseURL: "https://example.com"},
	}
	sender, closeFn := newSender(cfg)
	if _, ok := sender.(*sms.UjumbeSender); !ok {
		t.Errorf("expected UjumbeSender, got %T", sender)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}

	cfg.SMS.Backend = config.BackendKafka
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	sender, closeFn = newSender(cfg)
	if _, ok := sender.(*sms.OutboxSender); !ok {
		t.Errorf("expected OutboxSender, got %T", sender)
	}
	_ = closeFn()
}

func TestBootstrap_MissingCredentials(t *testing.T) {
	t.Setenv("UJUMBESMS_API_KEY", "")
	t.Setenv("UJUMBESMS_EMAIL", "")

	if _, _, err := bootstrap(); err == nil {
		t.Fatal("expected bootstrap to fail without credentials")
	}
}
