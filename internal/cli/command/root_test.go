package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	got := env.runJSON("version")
	for _, key := range []string{"version", "commit", "build_time", "go_version"} {
		if s, _ := got[key].(string); s == "" {
			t.Errorf("%s is empty in %v", key, got)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run("bogus")
	if exitCode(err) != 1 || err.Error() != "Unknown command: bogus" {
		t.Errorf("err = %v (exit %d)", err, exitCode(err))
	}
}

func TestMetricsFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "metrics", "clikit.prom")
	env.extra = []string{"--metrics-file", path}

	env.mustRun("config", "path")
	env.run("config", "get", "nope")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	// Each run writes a fresh registry.
	text := string(data)
	want := `clikit_commands_total{command="config get",result="error"} 1`
	if !strings.Contains(text, want) {
		t.Errorf("metrics missing %q:\n%s", want, text)
	}
}

func TestMetricsFile_RecordsSuccess(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "clikit.prom")
	env.extra = []string{"--metrics-file", path}

	env.mustRun("version")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if want := `clikit_commands_total{command="version",result="success"} 1`; !strings.Contains(string(data), want) {
		t.Errorf("metrics missing %q:\n%s", want, data)
	}
}

func TestVerboseLogsDebug(t *testing.T) {
	env := newTestEnv(t)
	_, stderr, err := env.run("--verbose", "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "executing command") {
		t.Errorf("stderr missing debug log:\n%s", stderr)
	}
}

func TestFlagEnvVarsAreNotConfig(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("CLIKIT_METRICS_FILE", filepath.Join(env.dir, "clikit.prom"))
	t.Setenv("CLIKIT_CONFIG_DIR", env.dir)

	if _, _, err := env.run("config", "get", "metrics.file"); exitCode(err) != 1 {
		t.Errorf("get metrics.file: exit code = %d, want 1", exitCode(err))
	}
	env.mustRun("config", "set", "log.level", "debug")

	data, err := os.ReadFile(env.configFile())
	if err != nil {
		t.Fatal(err)
	}
	var saved map[string]any
	if err := yaml.Unmarshal(data, &saved); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"metrics", "config"} {
		if _, ok := saved[key]; ok {
			t.Errorf("config file has %q:\n%s", key, data)
		}
	}
	if _, err := os.Stat(filepath.Join(env.dir, "clikit.prom")); err != nil {
		t.Errorf("CLIKIT_METRICS_FILE not honored: %v", err)
	}
}
