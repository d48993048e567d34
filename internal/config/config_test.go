// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pointConfigAt redirects ConfigPath() into a temp directory via
// XDG_CONFIG_HOME and returns the path Load() will read.
func pointConfigAt(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("OPENAI_API_KEY", "")
	return filepath.Join(dir, "primeminister", "config.yaml")
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	pointConfigAt(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIURL != "https://api.openai.com/v1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Model != "gpt-4" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.Mode != "council" {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if len(cfg.Council) != 3 {
		t.Fatalf("default council size = %d, want 3", len(cfg.Council))
	}
	for i, m := range cfg.Council {
		if m.Model != cfg.Model {
			t.Errorf("member %d model = %q, want top-level default", i, m.Model)
		}
		if !m.IsVoter() {
			t.Errorf("member %d should default to voter", i)
		}
	}
	if cfg.CouncilPrompt == "" || cfg.PrimeMinisterPrompt == "" || cfg.AdvisorSynthesisPrompt == "" {
		t.Error("default prompts not populated")
	}
}

func TestLoadParsesFileAndFillsDefaults(t *testing.T) {
	path := pointConfigAt(t)
	writeConfig(t, path, `
model: custom-model
mode: advisor
council:
  - personality: "Economist - thinks in trade-offs"
  - personality: "Engineer - thinks in systems"
    model: other-model
    voter: false
    silent: true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Model != "custom-model" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Mode != "advisor" {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if cfg.APIURL != "https://api.openai.com/v1" {
		t.Errorf("APIURL default not applied: %q", cfg.APIURL)
	}

	if len(cfg.Council) != 2 {
		t.Fatalf("council size = %d, want 2", len(cfg.Council))
	}
	if cfg.Council[0].Model != "custom-model" {
		t.Errorf("member 0 model = %q, want inherited top-level model", cfg.Council[0].Model)
	}
	if cfg.Council[1].Model != "other-model" {
		t.Errorf("member 1 model = %q, want explicit model kept", cfg.Council[1].Model)
	}
	if cfg.Council[1].IsVoter() {
		t.Error("member 1 voter = true, want false")
	}
	if !cfg.Council[1].Silent {
		t.Error("member 1 silent = false, want true")
	}
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	path := pointConfigAt(t)
	t.Setenv("PM_TEST_KEY", "sk-from-env")
	writeConfig(t, path, `
openai_key: $PM_TEST_KEY
council:
  - personality: "Solo - advises alone"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want env expansion", cfg.APIKey)
	}
}

func TestLoadFallsBackToAPIKeyEnv(t *testing.T) {
	path := pointConfigAt(t)
	t.Setenv("OPENAI_API_KEY", "sk-ambient")
	writeConfig(t, path, `
council:
  - personality: "Solo - advises alone"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.APIKey != "sk-ambient" {
		t.Errorf("APIKey = %q, want OPENAI_API_KEY fallback", cfg.APIKey)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := pointConfigAt(t)
	writeConfig(t, path, "council: [unclosed")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded on malformed YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	pointConfigAt(t)

	original := defaultConfig()
	original.Model = "saved-model"
	if err := Save(original); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Model != "saved-model" {
		t.Errorf("loaded model = %q, want %q", loaded.Model, "saved-model")
	}
	if len(loaded.Council) != len(original.Council) {
		t.Errorf("council size = %d, want %d", len(loaded.Council), len(original.Council))
	}
}

func TestUserContext(t *testing.T) {
	cfg := &Config{
		User: UserConfig{
			Attributes: []string{"startup founder", "bootstrapped"},
			Goal:       "reach profitability",
		},
	}

	got := cfg.UserContext()
	if !strings.Contains(got, "startup founder, bootstrapped") {
		t.Errorf("UserContext() = %q, want joined attributes", got)
	}
	if !strings.Contains(got, "User goal: reach profitability") {
		t.Errorf("UserContext() = %q, want goal line", got)
	}

	empty := (&Config{}).UserContext()
	if strings.Contains(empty, "User goal:") {
		t.Errorf("UserContext() = %q, want no goal line when unset", empty)
	}
}

func TestIsVoter(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name  string
		voter *bool
		want  bool
	}{
		{"unset defaults to true", nil, true},
		{"explicit true", boolPtr(true), true},
		{"explicit false", boolPtr(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MemberConfig{Voter: tt.voter}
			if got := m.IsVoter(); got != tt.want {
				t.Errorf("IsVoter() = %v, want %v", got, tt.want)
			}
		})
	}
}
