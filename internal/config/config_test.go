package config

import (
	"os"
	"testing"
	"time"
)

func clearHubbleEnv() {
	for _, k := range []string{
		"DATA_DIR", "DATABASE_URL", "HUBBLE_HOST", "HUBBLE_PORT",
		"LOG_LEVEL", "HUBBLE_REFRESH_INTERVAL",
	} {
		os.Unsetenv(k)
	}
}

func TestLoadRequiresDataDir(t *testing.T) {
	clearHubbleEnv()
	os.Setenv("DATABASE_URL", "file:test.db")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATA_DIR is unset")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearHubbleEnv()
	os.Setenv("DATA_DIR", "/tmp/hubble")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearHubbleEnv()
	os.Setenv("DATA_DIR", "/tmp/hubble")
	os.Setenv("DATABASE_URL", "file:test.db")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Host != "0.0.0.0" {
		t.Errorf("Host default: got %q", c.Host)
	}
	if c.Port != "8000" {
		t.Errorf("Port default: got %q", c.Port)
	}
	if c.LogLevel != "info" {
		t.Errorf("LogLevel default: got %q", c.LogLevel)
	}
	if c.RefreshInterval != 4*time.Hour {
		t.Errorf("RefreshInterval default: got %v", c.RefreshInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearHubbleEnv()
	os.Setenv("DATA_DIR", "/tmp/hubble")
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("HUBBLE_HOST", "127.0.0.1")
	os.Setenv("HUBBLE_PORT", "9001")
	os.Setenv("HUBBLE_REFRESH_INTERVAL", "30m")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Host != "127.0.0.1" || c.Port != "9001" {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.RefreshInterval != 30*time.Minute {
		t.Errorf("RefreshInterval override: got %v", c.RefreshInterval)
	}
}

func TestLoadBadRefreshInterval(t *testing.T) {
	clearHubbleEnv()
	os.Setenv("DATA_DIR", "/tmp/hubble")
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("HUBBLE_REFRESH_INTERVAL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed HUBBLE_REFRESH_INTERVAL")
	}
}
