package config_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/scorm/pkg/config"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "scorm.yaml", `
variant: scorm2004
settings:
  autocommit: "true"
  autocommit_interval_ms: 500
  commit_payload_format: flattened
rules:
  - name: location-needs-status
    element: cmi.location
    require: get("cmi.completion_status") != "unknown"
    error: dependency_not_established
store:
  kind: redis
  addr: localhost:6379
  ttl: 24h
redact:
  - learner_name$
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "scorm2004", cfg.Variant)
	assert.True(t, cfg.Settings.Autocommit)
	assert.Equal(t, 500, cfg.Settings.AutocommitIntervalMs)
	assert.Equal(t, "flattened", cfg.Settings.CommitPayloadFormat)
	assert.Equal(t, 30000, cfg.Settings.CommitTimeoutMs, "defaults survive partial settings")
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "cmi.location", cfg.Rules[0].Element)
	assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
	assert.Equal(t, []string{"learner_name$"}, cfg.Redact)

	v, err := cfg.Validator()
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "scorm.json", `{"variant":"aicc","store":{"kind":"file","path":"commits"}}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "aicc", cfg.Variant)
	assert.Equal(t, config.StoreFile, cfg.Store.Kind)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: blue\n"},
		{"unknown store", "store:\n  kind: s3\n"},
		{"redis without addr", "store:\n  kind: redis\n"},
		{"bad format", "settings:\n  commit_payload_format: xml\n"},
		{"bad key", "encryption_key: c2hvcnQ=\n"},
		{"bad pattern", "redact:\n  - \"(\"\n"},
		{"bad yaml", "variant: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "scorm.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestOpenStore(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("12345678901234567890123456789012"))
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		store  config.Store
		locker bool
	}{
		{name: "memory", store: config.Store{Kind: config.StoreMemory}},
		{name: "file", store: config.Store{Kind: config.StoreFile, Path: t.TempDir()}},
		{name: "sqlite", store: config.Store{Kind: config.StoreSQLite, Path: ":memory:"}},
		{name: "redis", store: config.Store{Kind: config.StoreRedis, Addr: mr.Addr(), Prefix: "test:"}, locker: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store = tt.store
			cfg.EncryptionKey = key
			cfg.Redact = []string{`student_name$`}
			require.NoError(t, cfg.Validate())

			b, err := cfg.OpenStore()
			require.NoError(t, err)
			defer b.Close()
			assert.Equal(t, tt.locker, b.Locker != nil)

			ctx := context.Background()
			rec := &domain.CommitRecord{
				SessionID:   "s1",
				Variant:     "scorm12",
				Format:      domain.FormatJSON,
				CommittedAt: time.Now().UTC(),
				Body:        json.RawMessage(`{"cmi":{"core":{"student_name":"Doe"}}}`),
			}
			require.NoError(t, b.Store.Save(ctx, rec))

			loaded, err := b.Store.Load(ctx, "s1")
			require.NoError(t, err)
			assert.JSONEq(t, `{"cmi":{"core":{"student_name":"***"}}}`, string(loaded.Body))
		})
	}
}
