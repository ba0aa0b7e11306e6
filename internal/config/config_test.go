package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rwlist/internal/client"
	"rwlist/internal/logger"
)

func intPtr(n int) *int { return &n }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	content := `
log:
  level: debug
scenario:
  name: test-scenario
  description: Test scenario
  duration: 10s
  list:
    max_len: 128
    prefill: 64
  client:
    workers: 10
    key_range: 500
    mix:
      find: 70
      insert: 20
      remove: 10
`
	cfg, err := LoadFile(writeFile(t, "config.yaml", content))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Scenario.Name != "test-scenario" {
		t.Errorf("expected name 'test-scenario', got '%s'", cfg.Scenario.Name)
	}
	if cfg.Scenario.List.MaxLen == nil || *cfg.Scenario.List.MaxLen != 128 {
		t.Errorf("expected max_len 128, got %v", cfg.Scenario.List.MaxLen)
	}
	if cfg.Scenario.Client.Mix == nil || cfg.Scenario.Client.Mix.Find != 70 {
		t.Errorf("expected mix to be parsed, got %+v", cfg.Scenario.Client.Mix)
	}
	if level, err := cfg.LogLevel(); err != nil || level != logger.LevelDebug {
		t.Errorf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadFileJSON(t *testing.T) {
	content := `{
  "scenario": {
    "name": "json-test",
    "preset": "churn",
    "duration": "5s",
    "client": {
      "workers": 5
    }
  }
}`
	cfg, err := LoadFile(writeFile(t, "config.json", content))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Scenario.Name != "json-test" {
		t.Errorf("expected name 'json-test', got '%s'", cfg.Scenario.Name)
	}
	if cfg.Scenario.Client.Mix != nil {
		t.Error("expected mix to stay unset")
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, err := LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "config.txt", "test")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "config.yaml", "scenario: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestToScenarioConfig(t *testing.T) {
	cfg := &FileConfig{
		Scenario: ScenarioConfig{
			Name:        "test",
			Description: "Test",
			Duration:    "10s",
			List:        ListConfig{MaxLen: intPtr(100), Prefill: intPtr(50)},
			Client: ClientConfig{
				Workers:     10,
				KeyRange:    300,
				PayloadSize: 4,
				Seed:        9,
				Mix:         &client.Mix{Find: 1, Remove: 1},
			},
		},
	}

	sc, err := cfg.ToScenarioConfig()
	if err != nil {
		t.Fatalf("failed to convert config: %v", err)
	}

	if sc.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", sc.Name)
	}
	if sc.Duration != 10*time.Second {
		t.Errorf("expected 10s, got %v", sc.Duration)
	}
	if sc.MaxLen != 100 || sc.Prefill != 50 {
		t.Errorf("unexpected list settings: max_len=%d prefill=%d", sc.MaxLen, sc.Prefill)
	}
	if sc.Workers != 10 || sc.KeyRange != 300 || sc.PayloadSize != 4 || sc.Seed != 9 {
		t.Errorf("unexpected client settings: %+v", sc)
	}
	if sc.Mix != (client.Mix{Find: 1, Remove: 1}) {
		t.Errorf("unexpected mix %+v", sc.Mix)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("converted config should be valid: %v", err)
	}
}

func TestToScenarioConfigPreset(t *testing.T) {
	cfg := &FileConfig{
		Scenario: ScenarioConfig{Preset: "bounded", Duration: "1s"},
	}

	sc, err := cfg.ToScenarioConfig()
	if err != nil {
		t.Fatalf("failed to convert config: %v", err)
	}
	if sc.Name != "bounded" {
		t.Errorf("expected preset name to be kept, got %s", sc.Name)
	}
	if sc.MaxLen != 256 {
		t.Errorf("expected preset max_len 256, got %d", sc.MaxLen)
	}
	if sc.Duration != time.Second {
		t.Errorf("expected duration override, got %v", sc.Duration)
	}
}

func TestToScenarioConfigExplicitZero(t *testing.T) {
	content := `
scenario:
  preset: bounded
  list:
    max_len: 0
    prefill: 0
`
	cfg, err := LoadFile(writeFile(t, "unbounded.yaml", content))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	sc, err := cfg.ToScenarioConfig()
	if err != nil {
		t.Fatalf("failed to convert config: %v", err)
	}
	if sc.MaxLen != 0 {
		t.Errorf("expected explicit max_len 0 to lift the preset cap, got %d", sc.MaxLen)
	}
	if sc.Prefill != 0 {
		t.Errorf("expected explicit prefill 0, got %d", sc.Prefill)
	}
}

func TestToScenarioConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  FileConfig
	}{
		{"invalid duration", FileConfig{Scenario: ScenarioConfig{Duration: "invalid"}}},
		{"unknown preset", FileConfig{Scenario: ScenarioConfig{Preset: "nope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.ToScenarioConfig(); err == nil {
				t.Error("expected conversion error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		config   FileConfig
		hasError bool
	}{
		{"valid config", FileConfig{}, false},
		{"bad log level", FileConfig{Log: LogConfig{Level: "loud"}}, true},
		{"negative max len", FileConfig{Scenario: ScenarioConfig{List: ListConfig{MaxLen: intPtr(-1)}}}, true},
		{"negative prefill", FileConfig{Scenario: ScenarioConfig{List: ListConfig{Prefill: intPtr(-1)}}}, true},
		{"negative workers", FileConfig{Scenario: ScenarioConfig{Client: ClientConfig{Workers: -1}}}, true},
		{"negative key range", FileConfig{Scenario: ScenarioConfig{Client: ClientConfig{KeyRange: -1}}}, true},
		{"negative payload", FileConfig{Scenario: ScenarioConfig{Client: ClientConfig{PayloadSize: -1}}}, true},
		{"empty mix", FileConfig{Scenario: ScenarioConfig{Client: ClientConfig{Mix: &client.Mix{}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.hasError && err == nil {
				t.Error("expected validation error")
			}
			if !tt.hasError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
