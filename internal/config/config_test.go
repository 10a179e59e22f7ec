package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("empty environment should give defaults, got %+v", cfg)
	}
	if cfg.RedirectURI() != "http://127.0.0.1:8888/callback" {
		t.Errorf("redirect = %q", cfg.RedirectURI())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		EnvAssets:      "https://cdn.example.com/hall/",
		EnvWidth:       "1920",
		EnvHeight:      "1080",
		EnvFullscreen:  "true",
		EnvVolume:      "0.5",
		EnvToken:       "abc",
		EnvLoginAddr:   "127.0.0.1:9999",
		EnvFontRegular: "",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssetBase != "https://cdn.example.com/hall/" || cfg.Width != 1920 || cfg.Height != 1080 || !cfg.Fullscreen {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Volume != 0.5 || cfg.Token != "abc" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FontRegular != "" {
		t.Error("empty variables should keep the default")
	}
	if cfg.RedirectURI() != "http://127.0.0.1:9999/callback" {
		t.Errorf("redirect = %q", cfg.RedirectURI())
	}
}

func TestFromEnvReportsEveryBadValue(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		EnvWidth:      "wide",
		EnvHeight:     "-3",
		EnvFullscreen: "sometimes",
		EnvVolume:     "11",
	}))
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, key := range []string{EnvWidth, EnvHeight, EnvFullscreen, EnvVolume} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hall.env")
	if err := os.WriteFile(path, []byte("CLIENT_SECRET=s3cret\nHALL_VOLUME=0.1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvClientSecret, "")
	os.Unsetenv(EnvClientSecret)
	t.Setenv(EnvVolume, "0.3")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ClientSecret != "s3cret" {
		t.Errorf("secret = %q", cfg.ClientSecret)
	}
	if cfg.Volume != 0.3 {
		t.Errorf("the environment should win over .env, volume = %v", cfg.Volume)
	}
}
