package redis

import (
	"context"
	"testing"
	"time"

	"brookschat/internal/config"
)

func TestNewClientDisabledWithoutHost(t *testing.T) {
	client, err := NewClient(&config.Config{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client != nil {
		t.Fatalf("expected nil client without a redis host")
	}
}

func TestNewClientRequiresConfig(t *testing.T) {
	if _, err := NewClient(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNilClientAllowsEverything(t *testing.T) {
	var client *Client
	ok, err := client.Allow(context.Background(), "k", 10, time.Minute)
	if err != nil || !ok {
		t.Fatalf("nil client should allow: ok=%v err=%v", ok, err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}
