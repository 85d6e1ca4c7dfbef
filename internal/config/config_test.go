package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend != "websocket" {
		t.Errorf("expected backend websocket, got %s", cfg.Backend)
	}
	if cfg.WebPort <= 0 || cfg.WSPort <= 0 {
		t.Error("ports should be positive")
	}
	if cfg.TickMultiplier <= 0 {
		t.Error("tick multiplier should be positive")
	}
	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("camera = %dx%d, want 640x480", cfg.Camera.Width, cfg.Camera.Height)
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinviz.yaml")

	cfg := DefaultConfig()
	cfg.Backend = "mirror"
	cfg.Headless = true
	cfg.CaptureDir = "/tmp/frames"
	cfg.FrameDelayMS = 50

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Backend != "mirror" || !loaded.Headless {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.CaptureDir != "/tmp/frames" {
		t.Errorf("capture dir = %q", loaded.CaptureDir)
	}
	if loaded.FrameDelay() != 50*time.Millisecond {
		t.Errorf("frame delay = %v, want 50ms", loaded.FrameDelay())
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("backend: mirror\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "mirror" {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.WebPort != DefaultWebPort {
		t.Errorf("unset fields must keep defaults, web_port = %d", cfg.WebPort)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
