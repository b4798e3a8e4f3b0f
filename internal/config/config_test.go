package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{"--deck", "Capitals", "--source", "./cards"})
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	if cfg.OutDir != "." || cfg.Template != "Basic" || cfg.ReposDir != "repos" || cfg.LogLevel != "info" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.Deck != "Capitals" || cfg.Source != "./cards" {
		t.Errorf("Flags were not applied: %+v", cfg)
	}
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knolpack.yaml")
	yaml := "deck: FromFile\nsource: ./from-file\nout_dir: /tmp/file\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	t.Setenv("KNOLPACK_OUT_DIR", "/tmp/env")
	t.Setenv("KNOLPACK_TEMPLATE", "Basic")

	cfg, err := Load([]string{"--config", path, "--deck", "FromFlag"})
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}

	if cfg.Deck != "FromFlag" {
		t.Errorf("Expected flag to win for deck, got %q", cfg.Deck)
	}
	if cfg.Source != "./from-file" {
		t.Errorf("Expected file value for source, got %q", cfg.Source)
	}
	if cfg.OutDir != "/tmp/env" {
		t.Errorf("Expected environment to override file for out_dir, got %q", cfg.OutDir)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.Level())
	}
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "Export", args: []string{"--deck", "D", "--source", "s"}},
		{name: "Serve", args: []string{"--listen", ":8080"}},
		{name: "Inspect", args: []string{"--inspect", "D.apkg"}},
		{name: "Nothing to do", args: nil, wantErr: true},
		{name: "Source without deck", args: []string{"--source", "s"}, wantErr: true},
		{name: "Bad listen address", args: []string{"--listen", "nowhere"}, wantErr: true},
		{name: "Bad log level", args: []string{"--deck", "D", "--source", "s", "--log-level", "loud"}, wantErr: true},
		{name: "Unknown flag", args: []string{"--colour"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args)
			if tc.wantErr && err == nil {
				t.Error("Expected an error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Load() returned an unexpected error: %v", err)
			}
		})
	}
}
