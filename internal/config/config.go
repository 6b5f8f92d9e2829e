package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Scan contains worker-pool and checkpoint settings for the scan pipeline.
type Scan struct {
	// Workers is the fixed analyzer pool size. 0 means one per CPU.
	Workers int `toml:"workers"`
	// CheckpointEvery flushes the result buffer to the manifest once it
	// holds this many records.
	CheckpointEvery int `toml:"checkpoint_every"`
	// MaxInFlight bounds how many items are dispatched per submission
	// wave, capping peak memory on very large trees.
	MaxInFlight int `toml:"max_in_flight"`
	// ItemTimeoutSeconds bounds the wait for a single analyzer result.
	// An overdue item is recorded as corrupt rather than stalling the run.
	ItemTimeoutSeconds int      `toml:"item_timeout_seconds"`
	IncludeHashes      bool     `toml:"include_hashes"`
	SkipPixelStats     bool     `toml:"skip_pixel_stats"`
	Extensions         []string `toml:"extensions"`
	Resume             bool     `toml:"resume"`
}

// Thresholds contains the per-check limits forwarded to the analyzer and
// the duplicate engine.
type Thresholds struct {
	Dark                float64 `toml:"dark"`
	Overexposed         float64 `toml:"overexposed"`
	Artifact            float64 `toml:"artifact"`
	CornerPatchFraction float64 `toml:"corner_patch_fraction"`
	MaxImageDimension   int     `toml:"max_image_dimension"`
	DuplicateHamming    int     `toml:"duplicate_hamming"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for imgeda.
type Config struct {
	Scan       Scan       `toml:"scan"`
	Thresholds Thresholds `toml:"thresholds"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/imgeda/config.toml")
}

// Load locates, parses and validates a configuration file. A missing file
// yields the defaults; a present but invalid file is an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("imgeda.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// NormalizedExtensions returns the extension filter lowercased and with a
// guaranteed leading dot.
func (c *Config) NormalizedExtensions() []string {
	out := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// EffectiveWorkers resolves the configured worker count, substituting
// the machine's CPU count when workers is left at zero.
func (c *Config) EffectiveWorkers() int {
	if c.Scan.Workers > 0 {
		return c.Scan.Workers
	}
	return runtime.NumCPU()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the given location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
