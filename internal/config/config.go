package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultSwearListID    = "default"
	defaultCacheTTL       = 300
	defaultMaxFileSizeMB  = 500
	defaultPrePadSeconds  = 0.0
	defaultPostPadSeconds = 0.0
	defaultTreatment      = "mute"
	defaultToneHz         = 1000
)

// Config supplies the recognized processing options plus the directories
// the tool persists swear lists and transcripts under.
type Config struct {
	DefaultSwearListID string   `toml:"default_swear_list_id"`
	SwearListDir       string   `toml:"swear_list_dir"`
	TranscriptDir      string   `toml:"transcript_dir"`
	CacheTTLSeconds    int      `toml:"cache_ttl_seconds"`
	MaxFileSizeMB      int      `toml:"max_file_size_mb"`
	SupportedFormats   []string `toml:"supported_formats"`

	PrePadSeconds   float64 `toml:"pre_pad_seconds"`
	PostPadSeconds  float64 `toml:"post_pad_seconds"`
	Treatment       string  `toml:"treatment"` // mute or tone
	ToneFrequencyHz int     `toml:"tone_frequency_hz"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		DefaultSwearListID: defaultSwearListID,
		SwearListDir:       "~/.local/share/bleep/lists",
		TranscriptDir:      "~/.local/share/bleep/transcripts",
		CacheTTLSeconds:    defaultCacheTTL,
		MaxFileSizeMB:      defaultMaxFileSizeMB,
		SupportedFormats: []string{
			"flac", "m4a", "m4b", "aac", "mp3", "ogg", "opus", "ac3", "wav",
		},
		PrePadSeconds:   defaultPrePadSeconds,
		PostPadSeconds:  defaultPostPadSeconds,
		Treatment:       defaultTreatment,
		ToneFrequencyHz: defaultToneHz,
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	return "~/.config/bleep/config.toml"
}

// Load reads a TOML config file and merges it over the defaults. A missing
// file at the default location is not an error; an explicitly requested file
// that does not exist is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.SwearListDir = ExpandHome(cfg.SwearListDir)
	cfg.TranscriptDir = ExpandHome(cfg.TranscriptDir)

	return cfg, nil
}

// Validate checks option values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	switch c.Treatment {
	case "mute", "tone":
	default:
		return fmt.Errorf("treatment must be mute or tone, got %q", c.Treatment)
	}
	if c.ToneFrequencyHz <= 0 {
		return fmt.Errorf("tone_frequency_hz must be positive, got %d", c.ToneFrequencyHz)
	}
	if c.PrePadSeconds < 0 || c.PostPadSeconds < 0 {
		return fmt.Errorf("padding must not be negative")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache_ttl_seconds must not be negative")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive, got %d", c.MaxFileSizeMB)
	}
	return nil
}

// ExpandHome resolves a leading ~/ against the current user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
