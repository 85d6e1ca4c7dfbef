package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWebPort        = 8080
	DefaultWSPort         = 8070
	DefaultTickMultiplier = 10.0
	DefaultFrameDelayMS   = 100
	DefaultCameraWidth    = 640
	DefaultCameraHeight   = 480
)

// Config is the session construction configuration.
type Config struct {
	Backend         string       `yaml:"backend"`
	Headless        bool         `yaml:"headless"`
	SyntheticCamera bool         `yaml:"synthetic_camera"`
	CaptureDir      string       `yaml:"capture_dir"`
	VideoLog        string       `yaml:"video_log"`
	AssetsDir       string       `yaml:"assets_dir"`
	WebPort         int          `yaml:"web_port"`
	WSPort          int          `yaml:"ws_port"`
	TickMultiplier  float64      `yaml:"tick_multiplier"`
	FrameDelayMS    int          `yaml:"frame_delay_ms"`
	Camera          CameraConfig `yaml:"camera"`
	Log             LogConfig    `yaml:"log"`
}

type CameraConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:         "websocket",
		SyntheticCamera: true,
		AssetsDir:       "web_gui",
		WebPort:         DefaultWebPort,
		WSPort:          DefaultWSPort,
		TickMultiplier:  DefaultTickMultiplier,
		FrameDelayMS:    DefaultFrameDelayMS,
		Camera: CameraConfig{
			Width:  DefaultCameraWidth,
			Height: DefaultCameraHeight,
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FrameDelay converts the configured per-frame sleep to a duration.
func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMS) * time.Millisecond
}
