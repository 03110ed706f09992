package scorm

import (
	"fmt"
	"time"

	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/internal/runtime"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Settings are the recognized runtime options.
type Settings struct {
	Autocommit            bool   `mapstructure:"autocommit" yaml:"autocommit" json:"autocommit"`
	AutocommitIntervalMs  int    `mapstructure:"autocommit_interval_ms" yaml:"autocommit_interval_ms" json:"autocommit_interval_ms"`
	CommitDestination     string `mapstructure:"commit_destination" yaml:"commit_destination" json:"commit_destination"`
	CommitPayloadFormat   string `mapstructure:"commit_payload_format" yaml:"commit_payload_format" json:"commit_payload_format"`
	CommitTimeoutMs       int    `mapstructure:"commit_timeout_ms" yaml:"commit_timeout_ms" json:"commit_timeout_ms"`
	LogLevel              string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	MasteryOverride       bool   `mapstructure:"mastery_override" yaml:"mastery_override" json:"mastery_override"`
	SelfReportSessionTime bool   `mapstructure:"self_report_session_time" yaml:"self_report_session_time" json:"self_report_session_time"`
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		AutocommitIntervalMs: 60000,
		CommitPayloadFormat:  string(domain.FormatJSON),
		CommitTimeoutMs:      30000,
		LogLevel:             "error",
	}
}

// SettingsFromMap decodes loosely typed options over the defaults, so
// {"autocommit": "true", "autocommit_interval_ms": "1000"} is accepted.
func SettingsFromMap(m map[string]any) (Settings, error) {
	s := DefaultSettings()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &s,
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to create settings decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return s, s.Validate()
}

// Validate rejects settings the runtime cannot act on.
func (s Settings) Validate() error {
	if !domain.PayloadFormat(s.CommitPayloadFormat).Valid() {
		return fmt.Errorf("invalid commit_payload_format %q", s.CommitPayloadFormat)
	}
	if s.Autocommit && s.AutocommitIntervalMs <= 0 {
		return fmt.Errorf("autocommit_interval_ms must be positive, got %d", s.AutocommitIntervalMs)
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

func (s Settings) config() runtime.Config {
	return runtime.Config{
		Autocommit:            s.Autocommit,
		AutocommitInterval:    time.Duration(s.AutocommitIntervalMs) * time.Millisecond,
		CommitDestination:     s.CommitDestination,
		PayloadFormat:         domain.PayloadFormat(s.CommitPayloadFormat),
		CommitTimeout:         time.Duration(s.CommitTimeoutMs) * time.Millisecond,
		MasteryOverride:       s.MasteryOverride,
		SelfReportSessionTime: s.SelfReportSessionTime,
	}
}
