package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "TRACE"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidContentType(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Content.Type = "ftp"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid content type")
	}
}

func TestValidate_ZeroThreads(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Threads = 0

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for zero worker threads")
	}
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = 70000

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for out-of-range port")
	}
}

func TestValidate_CacheRequiresPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Content.Cache.Enabled = true
	cfg.Content.Cache.Path = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for enabled cache without path")
	}
	if !strings.Contains(err.Error(), "path is required") {
		t.Errorf("Expected 'path is required' error, got: %v", err)
	}
}

func TestValidate_IndexFileMustBeBareName(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Serve.IndexFile = "sub/index.html"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for index file with path separator")
	}
	if !strings.Contains(err.Error(), "bare file name") {
		t.Errorf("Expected 'bare file name' error, got: %v", err)
	}
}
