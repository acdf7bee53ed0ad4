package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"example/imagebatch/internal/gemini"

	"github.com/joho/godotenv"
)

const (
	DefaultModel          = "gemini-3-pro-image-preview"
	DefaultInputDir       = "input_images"
	DefaultOutputDir      = "generated_images"
	DefaultConcurrent     = 10
	DefaultAspectRatio    = "1:1"
	DefaultImageSize      = "1K"
	DefaultCandidateCount = 1
	MaxCandidateCount     = 4
)

var ImageSizes = []string{"1K", "2K", "4K"}

type Config struct {
	APIKey         string
	Project        string
	Location       string
	Model          string
	InputDir       string
	OutputDir      string
	Concurrent     int
	Temperature    float64
	AspectRatio    string
	ImageSize      string
	CandidateCount int
	Prompt         string
	PollInterval   time.Duration
	WatchInterval  time.Duration
	LogLevel       string
	LogFormat      string
}

// Load reads .env (if present) and the process environment. A preset file
// named by PRESET_FILE is applied on top of the environment defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := &Config{
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		Project:        os.Getenv("PROJECT"),
		Location:       os.Getenv("LOCATION"),
		Model:          getenv("MODEL", DefaultModel),
		InputDir:       getenv("INPUT_DIR", DefaultInputDir),
		OutputDir:      getenv("OUTPUT_DIR", DefaultOutputDir),
		AspectRatio:    getenv("ASPECT_RATIO", DefaultAspectRatio),
		ImageSize:      DefaultImageSize,
		CandidateCount: DefaultCandidateCount,
		Prompt:         gemini.GetPrompt(),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Concurrent, err = getenvInt("CONCURRENT", DefaultConcurrent); err != nil {
		return nil, err
	}
	if cfg.Concurrent < 1 {
		return nil, fmt.Errorf("CONCURRENT must be at least 1, got %d", cfg.Concurrent)
	}
	if cfg.Temperature, err = getenvFloat("TEMPERATURE", 0); err != nil {
		return nil, err
	}
	poll, err := getenvInt("POLL_INTERVAL", 1)
	if err != nil {
		return nil, err
	}
	cfg.PollInterval = time.Duration(poll) * time.Second
	watch, err := getenvInt("WATCH_INTERVAL", 30)
	if err != nil {
		return nil, err
	}
	cfg.WatchInterval = time.Duration(watch) * time.Second

	if path := os.Getenv("PRESET_FILE"); path != "" {
		preset, err := LoadPreset(path)
		if err != nil {
			return nil, err
		}
		if err := preset.Apply(cfg); err != nil {
			return nil, fmt.Errorf("preset %s: %w", path, err)
		}
	}

	cfg.Model = FullModelName(cfg.Model)

	if cfg.APIKey == "" && (cfg.Project == "" || cfg.Location == "") {
		return nil, fmt.Errorf("GEMINI_API_KEY is required (or PROJECT and LOCATION for Vertex AI)")
	}
	return cfg, nil
}

// FullModelName returns the resource name batch requests expect.
func FullModelName(model string) string {
	if strings.Contains(model, "/") {
		return model
	}
	return "models/" + model
}

// ParseCandidateCount validates a user supplied candidate count. Empty input
// yields the default.
func ParseCandidateCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCandidateCount, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return DefaultCandidateCount, fmt.Errorf("invalid candidate count %q", s)
	}
	if n < 1 || n > MaxCandidateCount {
		return DefaultCandidateCount, fmt.Errorf("candidate count %d out of range 1-%d", n, MaxCandidateCount)
	}
	return n, nil
}

// ParseImageSize normalises 1K/2K/4K. Empty input yields the default.
func ParseImageSize(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultImageSize, nil
	}
	for _, size := range ImageSizes {
		if s == size {
			return s, nil
		}
	}
	return DefaultImageSize, fmt.Errorf("invalid image size %q", s)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
