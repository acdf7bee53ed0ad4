package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Preset is a reusable YAML description of a generation run. Zero fields
// leave the environment value in place.
type Preset struct {
	Model          string   `yaml:"model"`
	Prompt         string   `yaml:"prompt"`
	Temperature    *float64 `yaml:"temperature"`
	CandidateCount int      `yaml:"candidate_count"`
	AspectRatio    string   `yaml:"aspect_ratio"`
	ImageSize      string   `yaml:"image_size"`
}

func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return &p, nil
}

func (p *Preset) Apply(cfg *Config) error {
	if p.Model != "" {
		cfg.Model = p.Model
	}
	if p.Prompt != "" {
		cfg.Prompt = p.Prompt
	}
	if p.Temperature != nil {
		if *p.Temperature < 0 || *p.Temperature > 2 {
			return fmt.Errorf("temperature %v out of range 0-2", *p.Temperature)
		}
		cfg.Temperature = *p.Temperature
	}
	if p.CandidateCount != 0 {
		n, err := ParseCandidateCount(strconv.Itoa(p.CandidateCount))
		if err != nil {
			return err
		}
		cfg.CandidateCount = n
	}
	if p.AspectRatio != "" {
		cfg.AspectRatio = p.AspectRatio
	}
	if p.ImageSize != "" {
		size, err := ParseImageSize(p.ImageSize)
		if err != nil {
			return err
		}
		cfg.ImageSize = size
	}
	return nil
}
