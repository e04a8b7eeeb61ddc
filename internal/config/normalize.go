package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	overrides := []struct {
		key   string
		env   string
		value *string
	}{
		{"tools.ffmpeg", "AV3A_FFMPEG", &c.Tools.FFmpeg},
		{"tools.ffmpeg_av3a", "AV3A_FFMPEG_AV3A", &c.Tools.FFmpegAV3A},
		{"tools.decoder", "AV3A_DECODER", &c.Tools.Decoder},
	}
	for _, o := range overrides {
		*o.value = strings.TrimSpace(*o.value)
		if *o.value == "" {
			if value, ok := os.LookupEnv(o.env); ok {
				*o.value = strings.TrimSpace(value)
			}
		}
		// Bare names are resolved later by the executable locator; only
		// explicit paths are expanded here.
		if strings.ContainsAny(*o.value, `/\`) || strings.HasPrefix(*o.value, "~") {
			if *o.value, err = expandPath(*o.value); err != nil {
				return fmt.Errorf("%s: %w", o.key, err)
			}
		}
	}

	dirs := make([]string, 0, len(c.Tools.SearchDirs))
	seen := make(map[string]struct{}, len(c.Tools.SearchDirs))
	for _, dir := range c.Tools.SearchDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("tools.search_dirs: %w", err)
		}
		if _, exists := seen[expanded]; exists {
			continue
		}
		seen[expanded] = struct{}{}
		dirs = append(dirs, expanded)
	}
	c.Tools.SearchDirs = dirs
	return nil
}

func (c *Config) normalizeHistory() {
	if c.History.MaxEntries < 0 {
		c.History.MaxEntries = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
