// Package config resolves where the content build reads from and writes to.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/souffle-app/souffle-content/pkg/safeio"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid marks configuration problems; the CLI maps it to exitcode.ConfigError.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is the prefix for environment overrides, e.g. SOUFFLE_CONTENT_CONTENT_ROOT.
const EnvPrefix = "SOUFFLE_CONTENT"

// Config holds all configuration for a content build.
type Config struct {
	ContentRoot  string `mapstructure:"content_root"`
	PublicRoot   string `mapstructure:"public_root"`
	Output       string `mapstructure:"output"` // relative to PublicRoot
	WorldPattern string `mapstructure:"world_pattern"`
	ScenePattern string `mapstructure:"scene_pattern"`
	LessonFile   string `mapstructure:"lesson_file"`
	IgnoreFile   string `mapstructure:"ignore_file"`
	StrictRefs   bool   `mapstructure:"strict_refs"`
}

// Default returns the built-in configuration: ./content in, ./public/content-manifest.json out.
func Default() Config {
	return Config{
		ContentRoot:  "content",
		PublicRoot:   "public",
		Output:       "content-manifest.json",
		WorldPattern: "**/*.json",
		ScenePattern: "**/*.json",
		LessonFile:   "lesson.json",
		IgnoreFile:   ".contentignore",
		StrictRefs:   false,
	}
}

// flagKeys maps CLI flag names onto configuration keys.
var flagKeys = map[string]string{
	"content":     "content_root",
	"public":      "public_root",
	"output":      "output",
	"strict-refs": "strict_refs",
}

// projectConfigs are probed in the working directory when no --config is given.
var projectConfigs = []string{
	"souffle-content.yaml",
	"souffle-content.yml",
	".souffle-content.yaml",
	".souffle-content.yml",
	"souffle-content.json",
	"souffle-content.toml",
}

// Load resolves configuration from, in increasing precedence: defaults, a config file,
// SOUFFLE_CONTENT_* environment variables, and flags that were explicitly set.
// configFile may be empty; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("content_root", def.ContentRoot)
	v.SetDefault("public_root", def.PublicRoot)
	v.SetDefault("output", def.Output)
	v.SetDefault("world_pattern", def.WorldPattern)
	v.SetDefault("scene_pattern", def.ScenePattern)
	v.SetDefault("lesson_file", def.LessonFile)
	v.SetDefault("ignore_file", def.IgnoreFile)
	v.SetDefault("strict_refs", def.StrictRefs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, configFile, err)
		}
	} else {
		for _, candidate := range projectConfigs {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			v.SetConfigFile(candidate)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, candidate, err)
			}
			break
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks patterns and file names before any filesystem access happens.
// Output is normalised in place.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ContentRoot) == "" {
		return fmt.Errorf("%w: content_root is empty", ErrInvalid)
	}
	if strings.TrimSpace(c.PublicRoot) == "" {
		return fmt.Errorf("%w: public_root is empty", ErrInvalid)
	}
	if c.WorldPattern == "" || !doublestar.ValidatePattern(c.WorldPattern) {
		return fmt.Errorf("%w: world_pattern %q is not a valid glob", ErrInvalid, c.WorldPattern)
	}
	if c.ScenePattern == "" || !doublestar.ValidatePattern(c.ScenePattern) {
		return fmt.Errorf("%w: scene_pattern %q is not a valid glob", ErrInvalid, c.ScenePattern)
	}
	if c.LessonFile == "" || strings.ContainsAny(c.LessonFile, `/\`) {
		return fmt.Errorf("%w: lesson_file %q must be a bare file name", ErrInvalid, c.LessonFile)
	}
	out, err := safeio.CleanUserPath(c.Output)
	if err != nil || out == "." || strings.HasPrefix(out, "/") {
		return fmt.Errorf("%w: output %q must be a path inside public_root", ErrInvalid, c.Output)
	}
	c.Output = out
	return nil
}
