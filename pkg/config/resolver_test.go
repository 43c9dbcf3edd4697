package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/yndnr/clikit/pkg/logger"
)

// newTestResolver builds a resolver rooted in a temp directory.
func newTestResolver(t *testing.T, module string, opts ...Option) *Resolver {
	t.Helper()
	opts = append([]Option{WithConfigDir(t.TempDir()), WithLogger(logger.Nop())}, opts...)
	r, err := New(module, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNew_EmptyModuleName(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, ErrEmptyModuleName) {
		t.Errorf("New(\"\") error = %v, want ErrEmptyModuleName", err)
	}
}

func TestNew_DerivedEnvPrefix(t *testing.T) {
	r := newTestResolver(t, "test-app")
	if r.EnvPrefix() != "TEST_APP" {
		t.Errorf("EnvPrefix() = %q, want %q", r.EnvPrefix(), "TEST_APP")
	}
	if r.ModuleName() != "test-app" {
		t.Errorf("ModuleName() = %q, want %q", r.ModuleName(), "test-app")
	}
}

func TestNew_ExplicitEnvPrefix(t *testing.T) {
	r := newTestResolver(t, "test-app", WithEnvPrefix("CUSTOM"))
	if r.EnvPrefix() != "CUSTOM" {
		t.Errorf("EnvPrefix() = %q, want %q", r.EnvPrefix(), "CUSTOM")
	}
}

func TestNew_FirstRunBootstrap(t *testing.T) {
	dir := t.TempDir()
	defaults := []byte("# shipped defaults\napi:\n  url: https://default.example\n")

	r, err := New("test-app",
		WithConfigDir(dir),
		WithDefaults(BytesSource(defaults)),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := filepath.Join(dir, "test-app", FileName)
	if r.FilePath() != want {
		t.Errorf("FilePath() = %q, want %q", r.FilePath(), want)
	}
	if got := r.Get(FilePathKey, nil); got != want {
		t.Errorf("Get(%q) = %v, want %q", FilePathKey, got, want)
	}

	written, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(written, defaults) {
		t.Errorf("bootstrap file = %q, want defaults verbatim %q", written, defaults)
	}

	if got := r.Get("api.url", nil); got != "https://default.example" {
		t.Errorf("api.url = %v, want default", got)
	}
}

func TestNew_FirstRunWithoutDefaults(t *testing.T) {
	r := newTestResolver(t, "test-app")

	written, err := os.ReadFile(r.FilePath())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(written) != "{}\n" {
		t.Errorf("bootstrap file = %q, want empty document", written)
	}

	all := r.All()
	if len(all) != 1 || all[FilePathKey] != r.FilePath() {
		t.Errorf("All() = %v, want only %s", all, FilePathKey)
	}
}

func TestNew_FSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"config/test-app.yaml": {Data: []byte("options:\n  timeout: 10\n")},
	}

	r := newTestResolver(t, "test-app", WithDefaults(FSSource(fsys)))
	if got := r.Get("options.timeout", nil); got != 10 {
		t.Errorf("options.timeout = %v (%T), want 10", got, got)
	}
}

func TestNew_FSSourceMissing(t *testing.T) {
	r := newTestResolver(t, "test-app", WithDefaults(FSSource(fstest.MapFS{})))
	if _, ok := r.Lookup("options"); ok {
		t.Error("missing defaults should yield an empty layer")
	}
}

func TestNew_MalformedDefaults(t *testing.T) {
	r := newTestResolver(t, "test-app", WithDefaults(BytesSource([]byte("a: [broken\n"))))

	written, err := os.ReadFile(r.FilePath())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(written) != "{}\n" {
		t.Errorf("bootstrap file = %q, want empty document", written)
	}
}

func TestNew_UserOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test-app", FileName)
	writeFile(t, path, "api:\n  url: https://user.example\n")

	defaults := BytesSource([]byte("api:\n  url: https://default.example\n  retries: 3\nname: default\n"))
	r, err := New("test-app", WithConfigDir(dir), WithDefaults(defaults), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := r.Get("api.url", nil); got != "https://user.example" {
		t.Errorf("api.url = %v, want user value", got)
	}
	// The user's api namespace replaces the default one as a whole.
	if _, ok := r.Lookup("api.retries"); ok {
		t.Errorf("api.retries should not be inherited from defaults")
	}
	if got := r.Get("name", nil); got != "default" {
		t.Errorf("name = %v, want default", got)
	}
}

func TestNew_DeletedKeyStaysDeleted(t *testing.T) {
	dir := t.TempDir()
	defaults := BytesSource([]byte("log:\n  level: info\n  format: text\n"))

	r, err := New("test-app", WithConfigDir(dir), WithDefaults(defaults), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !r.Delete("log.level") {
		t.Fatal("Delete(log.level) = false, want true")
	}
	if err := r.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r2, err := New("test-app", WithConfigDir(dir), WithDefaults(defaults), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got, ok := r2.Lookup("log.level"); ok {
		t.Errorf("log.level = %v after reload, want deleted", got)
	}
	if got := r2.Get("log.format", nil); got != "text" {
		t.Errorf("log.format = %v, want text", got)
	}
}

func TestNew_MalformedUserFile(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Format: "text", Output: &buf})

	dir := t.TempDir()
	path := filepath.Join(dir, "test-app", FileName)
	writeFile(t, path, "api: [unclosed\n  : :\n")

	r, err := New("test-app",
		WithConfigDir(dir),
		WithDefaults(BytesSource([]byte("api:\n  url: https://default.example\n"))),
		WithLogger(l),
	)
	if err != nil {
		t.Fatalf("New() error = %v, want tolerated", err)
	}

	if got := r.Get("api.url", nil); got != "https://default.example" {
		t.Errorf("api.url = %v, want default fallback", got)
	}
	if !strings.Contains(buf.String(), "ignoring unreadable configuration file") {
		t.Errorf("malformed file was not logged: %q", buf.String())
	}

	// The bad file is left for the user to fix.
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "unclosed") {
		t.Error("malformed file should not be overwritten on load")
	}
}

func TestNew_MalformedUserFileNoDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test-app", FileName), "- just\n- a list\n")

	r, err := New("test-app", WithConfigDir(dir), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	all := r.All()
	delete(all, FilePathKey)
	if len(all) != 0 {
		t.Errorf("All() = %v, want empty namespace", all)
	}
}

func TestNew_EmptyUserFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "test-app", FileName), "")

	r, err := New("test-app",
		WithConfigDir(dir),
		WithDefaults(BytesSource([]byte("a: 1\n"))),
		WithLogger(logger.Nop()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := r.Get("a", nil); got != 1 {
		t.Errorf("a = %v, want default 1", got)
	}
}

func TestNew_BootstrapFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "not a directory")

	_, err := New("test-app", WithConfigDir(blocker), WithLogger(logger.Nop()))
	if err == nil {
		t.Error("New() should fail when the config directory cannot be created")
	}
}

func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "custom.yaml")

	r, err := New("test-app", WithConfigFile(path), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", r.FilePath(), path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestNew_XDGConfigHome(t *testing.T) {
	if os.PathSeparator == '\\' {
		t.Skip("XDG_CONFIG_HOME is not consulted on Windows")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	r, err := New("test-app", WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := filepath.Join(dir, "test-app", FileName)
	if r.FilePath() != want {
		t.Errorf("FilePath() = %q, want %q", r.FilePath(), want)
	}
}

func TestReload(t *testing.T) {
	r := newTestResolver(t, "test-app")
	r.Set("draft", "unsaved")

	writeFile(t, r.FilePath(), "edited: externally\n")
	t.Setenv("TEST_APP_FROM_ENV", "yes")

	if err := r.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, ok := r.Lookup("draft"); ok {
		t.Error("Reload() should discard unsaved changes")
	}
	if got := r.Get("edited", nil); got != "externally" {
		t.Errorf("edited = %v, want externally", got)
	}
	if got := r.Get("from.env", nil); got != "yes" {
		t.Errorf("from.env = %v, want env value after Reload", got)
	}
	if got := r.Get(FilePathKey, nil); got != r.FilePath() {
		t.Errorf("%s = %v, want %s", FilePathKey, got, r.FilePath())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}
