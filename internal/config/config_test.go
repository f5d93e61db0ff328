package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JESCTL_API_URL", "")
	t.Setenv("JESCTL_TOKEN", "")
	t.Setenv("JESCTL_LOG_LEVEL", "")
}

func TestLoad_Valid(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api_url: http://localhost:8080/
token: s3cret
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Errorf("APIURL = %q, want trailing slash trimmed", cfg.APIURL)
	}
	if cfg.Token != "s3cret" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.Prune() {
		t.Error("expected pruning enabled by default")
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Token != "" {
		t.Errorf("expected empty token, got %q", cfg.Token)
	}
}

func TestLoad_PruneDisabled(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "prune_selection: false\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prune() {
		t.Error("expected pruning disabled")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api_url: http://file:1
token: from-file
log_level: info
`)
	t.Setenv("JESCTL_API_URL", "https://env:2")
	t.Setenv("JESCTL_TOKEN", "from-env")
	t.Setenv("JESCTL_LOG_LEVEL", "trace")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "https://env:2" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Token != "from-env" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.LogLevel != "trace" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_InvalidURL(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "api_url: ftp://host\n"))
	if err == nil {
		t.Error("expected error for non-http api_url")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "api_url: [unterminated\n"))
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	prune := false
	in := &ClientConfig{APIURL: "http://host:9", Token: "tok", LogLevel: "info", PruneSelection: &prune}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.APIURL != in.APIURL || out.Token != in.Token || out.Prune() {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestRead_SkipsValidation(t *testing.T) {
	clearEnv(t)
	cfg, err := Read(writeConfig(t, "api_url: ftp://host\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "ftp://host" {
		t.Errorf("APIURL = %q, want the stored value", cfg.APIURL)
	}
	if cfg.Validate() == nil {
		t.Error("expected Validate to reject the stored value")
	}
}
