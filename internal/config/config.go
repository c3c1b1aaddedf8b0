// SPDX-License-Identifier: EPL-2.0

// Package config loads settings for the command-line programs from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ik5/denoiseset/dataset"
)

const prefix = "DENOISESET_"

type Config struct {
	Log      LogConfig
	Discover DiscoverConfig
	Dataset  DatasetConfig
}

type LogConfig struct {
	Level string
}

type DiscoverConfig struct {
	Extensions     []string
	FollowSymlinks bool
	CacheDir       string
}

type DatasetConfig struct {
	Dir        string
	Matching   string
	MaxPairs   int
	Length     int
	Stride     int
	Pad        bool
	SampleRate int
	Channels   int
	Convert    bool
	WithPath   bool
}

// ErrInvalidValue reports a variable that does not parse as its type.
var ErrInvalidValue = errors.New("invalid configuration value")

// Load reads envFile, if it exists, without overriding variables that are
// already set, then builds the configuration from DENOISESET_* variables.
// Every variable that fails to parse is reported.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var env envReader
	cfg := &Config{
		Log: LogConfig{
			Level: env.getString("LOG_LEVEL", "info"),
		},
		Discover: DiscoverConfig{
			Extensions:     env.getList("EXTENSIONS"),
			FollowSymlinks: env.getBool("FOLLOW_SYMLINKS", false),
			CacheDir:       env.getString("CACHE_DIR", ""),
		},
		Dataset: DatasetConfig{
			Dir:        env.getString("DATA_DIR", ""),
			Matching:   env.getString("MATCHING", dataset.MatchZipSorted.String()),
			MaxPairs:   env.getInt("MAX_PAIRS", 0),
			Length:     env.getInt("LENGTH", 0),
			Stride:     env.getInt("STRIDE", 0),
			Pad:        env.getBool("PAD", true),
			SampleRate: env.getInt("SAMPLE_RATE", 0),
			Channels:   env.getInt("CHANNELS", 0),
			Convert:    env.getBool("CONVERT", false),
			WithPath:   env.getBool("WITH_PATH", false),
		},
	}
	if env.errs != nil {
		return nil, errors.Join(env.errs...)
	}

	return cfg, nil
}

// DatasetOptions turns the dataset section into dataset.Options.
func (c *Config) DatasetOptions(logger logrus.FieldLogger) (dataset.Options, error) {
	m, err := dataset.ParseMatching(c.Dataset.Matching)
	if err != nil {
		return dataset.Options{}, err
	}

	return dataset.Options{
		Matching: m,
		MaxPairs: c.Dataset.MaxPairs,
		Windowing: dataset.Windowing{
			Length: c.Dataset.Length,
			Stride: c.Dataset.Stride,
			Pad:    c.Dataset.Pad,
		},
		SampleRate: c.Dataset.SampleRate,
		Channels:   c.Dataset.Channels,
		Convert:    c.Dataset.Convert,
		WithPath:   c.Dataset.WithPath,
		Logger:     logger,
	}, nil
}

// NewLogger returns a text logger on stderr at the configured level.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)

	return logger, nil
}

// envReader reads prefixed variables, collecting parse failures.
type envReader struct {
	errs []error
}

func (e *envReader) getString(key, defaultVal string) string {
	if v := os.Getenv(prefix + key); v != "" {
		return v
	}
	return defaultVal
}

func (e *envReader) getInt(key string, defaultVal int) int {
	v := os.Getenv(prefix + key)
	if v == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidValue, prefix, key, v))
		return defaultVal
	}
	return i
}

func (e *envReader) getBool(key string, defaultVal bool) bool {
	v := os.Getenv(prefix + key)
	if v == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s=%q is not a boolean", ErrInvalidValue, prefix, key, v))
		return defaultVal
	}
	return b
}

// getList splits a comma separated value, dropping empty items.
func (e *envReader) getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(prefix+key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
