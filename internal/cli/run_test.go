package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/scorm/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scorm.yaml")
	content := "settings:\n  commit_destination: store\nstore:\n  kind: file\n  path: " + filepath.Join(dir, "commits") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExecute_Passing(t *testing.T) {
	cfgPath := storeConfig(t)
	var out bytes.Buffer

	err := Execute(context.Background(), RunOptions{
		ScriptPath: "testdata/passing.yaml",
		ConfigPath: cfgPath,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `("cmi.core.student_name", "Other") = "false"`)
	assert.Contains(t, out.String(), "6 steps passed")

	// The final commit went to the configured file store
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	b, err := cfg.OpenStore()
	require.NoError(t, err)
	rec, err := b.Store.Load(context.Background(), "replay-1")
	require.NoError(t, err)
	assert.True(t, rec.Terminated)
	assert.Contains(t, string(rec.Body), `"lesson_status":"passed"`)
}

func TestExecute_FailingJSON(t *testing.T) {
	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		ScriptPath: "testdata/failing.yaml",
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		JSON:       true,
	}, &out)
	assert.ErrorIs(t, err, ErrExpectationFailed)

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "scorm2004", report.Variant)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Steps, 3)
	assert.Equal(t, "407", report.Steps[1].ErrorCode)
	assert.Equal(t, `expected result "true"`, report.Steps[1].Reason)
	assert.Equal(t, "407", report.Steps[2].Result)
}

func TestExecute_VariantOverride(t *testing.T) {
	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		ScriptPath: "testdata/passing.yaml",
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Variant:    "scorm2004",
	}, &out)
	assert.ErrorContains(t, err, "unknown api method")
}

func TestLoadScript_Errors(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - args: [x]\n"), 0644))
	_, err = LoadScript(path)
	assert.ErrorContains(t, err, "step 1 has no call")
}
