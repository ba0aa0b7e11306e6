package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rwlist/internal/client"
	"rwlist/internal/logger"
	"rwlist/internal/scenario"

	"gopkg.in/yaml.v3"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Log      LogConfig      `yaml:"log" json:"log"`
	Scenario ScenarioConfig `yaml:"scenario" json:"scenario"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level string `yaml:"level" json:"level"` // debug, info, warn, error
}

// ScenarioConfig はシナリオ設定
type ScenarioConfig struct {
	Name        string `yaml:"name" json:"name"`
	Preset      string `yaml:"preset" json:"preset"` // ベースにするプリセット
	Description string `yaml:"description" json:"description"`
	Duration    string `yaml:"duration" json:"duration"`

	List   ListConfig   `yaml:"list" json:"list"`
	Client ClientConfig `yaml:"client" json:"client"`
}

// ListConfig はリスト設定。未指定(nil)ならプリセットの値を使い、0 も明示的な値として扱う
type ListConfig struct {
	MaxLen  *int `yaml:"max_len" json:"max_len"`
	Prefill *int `yaml:"prefill" json:"prefill"`
}

// ClientConfig はクライアント設定
type ClientConfig struct {
	Workers     int         `yaml:"workers" json:"workers"`
	KeyRange    int         `yaml:"key_range" json:"key_range"`
	PayloadSize int         `yaml:"payload_size" json:"payload_size"`
	Seed        int64       `yaml:"seed" json:"seed"`
	Mix         *client.Mix `yaml:"mix" json:"mix"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// LogLevel は設定されたログレベルを返す
func (f *FileConfig) LogLevel() (logger.Level, error) {
	return logger.ParseLevel(f.Log.Level)
}

// ToScenarioConfig はFileConfigをscenario.Configに変換する
func (f *FileConfig) ToScenarioConfig() (scenario.Config, error) {
	sc := f.Scenario

	config := scenario.DefaultConfig()
	if sc.Preset != "" {
		preset, ok := scenario.GetPreset(sc.Preset)
		if !ok {
			return config, fmt.Errorf("unknown preset: %s", sc.Preset)
		}
		config = preset
	}

	if sc.Name != "" {
		config.Name = sc.Name
	}
	if sc.Description != "" {
		config.Description = sc.Description
	}
	if sc.Duration != "" {
		d, err := time.ParseDuration(sc.Duration)
		if err != nil {
			return config, fmt.Errorf("invalid duration: %w", err)
		}
		config.Duration = d
	}

	// List設定
	if sc.List.MaxLen != nil {
		config.MaxLen = *sc.List.MaxLen
	}
	if sc.List.Prefill != nil {
		config.Prefill = *sc.List.Prefill
	}

	// Client設定
	if sc.Client.Workers > 0 {
		config.Workers = sc.Client.Workers
	}
	if sc.Client.KeyRange > 0 {
		config.KeyRange = sc.Client.KeyRange
	}
	if sc.Client.PayloadSize > 0 {
		config.PayloadSize = sc.Client.PayloadSize
	}
	if sc.Client.Seed != 0 {
		config.Seed = sc.Client.Seed
	}
	if sc.Client.Mix != nil {
		config.Mix = *sc.Client.Mix
	}

	return config, nil
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	if _, err := f.LogLevel(); err != nil {
		return err
	}

	sc := f.Scenario

	if sc.List.MaxLen != nil && *sc.List.MaxLen < 0 {
		return fmt.Errorf("list.max_len must be non-negative")
	}
	if sc.List.Prefill != nil && *sc.List.Prefill < 0 {
		return fmt.Errorf("list.prefill must be non-negative")
	}
	if sc.Client.Workers < 0 {
		return fmt.Errorf("client.workers must be non-negative")
	}
	if sc.Client.KeyRange < 0 {
		return fmt.Errorf("client.key_range must be non-negative")
	}
	if sc.Client.PayloadSize < 0 {
		return fmt.Errorf("client.payload_size must be non-negative")
	}
	if sc.Client.Mix != nil {
		if err := sc.Client.Mix.Validate(); err != nil {
			return fmt.Errorf("client.mix: %w", err)
		}
	}

	return nil
}
