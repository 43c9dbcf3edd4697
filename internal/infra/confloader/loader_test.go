package confloader

import (
	"testing"
)

type testConfig struct {
	API struct {
		URL     string `koanf:"url"`
		Timeout int    `koanf:"timeout"`
	} `koanf:"api"`
	Debug bool `koanf:"debug"`
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if len(l.Keys()) != 0 {
		t.Errorf("Keys() = %v, want empty", l.Keys())
	}
}

func TestFromMap(t *testing.T) {
	l, err := FromMap(map[string]any{
		"api": map[string]any{
			"url":     "https://example.com",
			"timeout": 30,
		},
		"debug": true,
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	if got := l.GetString("api.url"); got != "https://example.com" {
		t.Errorf("api.url = %q, want %q", got, "https://example.com")
	}
	if got := l.GetInt("api.timeout"); got != 30 {
		t.Errorf("api.timeout = %d, want 30", got)
	}
	if !l.GetBool("debug") {
		t.Error("debug should be true")
	}
	if !l.Exists("api") {
		t.Error("api should exist")
	}
	if l.Exists("api.missing") {
		t.Error("api.missing should not exist")
	}
}

func TestLoader_LoadMap_Copies(t *testing.T) {
	src := map[string]any{"api": map[string]any{"url": "a"}}
	l, err := FromMap(src)
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	src["api"].(map[string]any)["url"] = "b"
	if got := l.GetString("api.url"); got != "a" {
		t.Errorf("api.url = %q after source mutation, want %q", got, "a")
	}
}

func TestLoader_LoadMap_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(nil); err != nil {
		t.Errorf("LoadMap(nil) error = %v", err)
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	l, err := FromMap(map[string]any{
		"api":   map[string]any{"url": "https://example.com", "timeout": "45"},
		"debug": "true",
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	var cfg testConfig
	if err := l.Unmarshal("", &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.API.URL != "https://example.com" {
		t.Errorf("API.URL = %q, want %q", cfg.API.URL, "https://example.com")
	}
	if cfg.API.Timeout != 45 {
		t.Errorf("API.Timeout = %d, want 45", cfg.API.Timeout)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestLoader_Unmarshal_Subtree(t *testing.T) {
	l, err := FromMap(map[string]any{
		"api": map[string]any{"url": "u", "timeout": 5},
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	var api struct {
		URL string `koanf:"url"`
	}
	if err := l.Unmarshal("api", &api); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if api.URL != "u" {
		t.Errorf("URL = %q, want %q", api.URL, "u")
	}
}

func TestLoader_Keys(t *testing.T) {
	l, err := FromMap(map[string]any{
		"a": map[string]any{"b": 1, "c": 2},
		"d": 3,
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	keys := l.Keys()
	if len(keys) != 3 {
		t.Errorf("Keys() = %v, want 3 leaves", keys)
	}
}
