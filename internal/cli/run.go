package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/internal/presentation/tui"
	"github.com/aretw0/scorm/pkg/config"
)

// ErrExpectationFailed is returned when a replayed step does not match its assertions.
var ErrExpectationFailed = errors.New("script expectations failed")

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	ScriptPath string
	ConfigPath string
	Variant    string // Overrides the script and the config
	SessionID  string // Overrides the script
	JSON       bool
	Debug      bool
}

// StepResult is the outcome of one replayed step.
type StepResult struct {
	Call      string   `json:"call"`
	Args      []string `json:"args,omitempty"`
	Result    string   `json:"result"`
	ErrorCode string   `json:"errorCode"`
	OK        bool     `json:"ok"`
	Reason    string   `json:"reason,omitempty"`
}

// Report summarizes a replay.
type Report struct {
	SessionID string         `json:"session_id"`
	Variant   string         `json:"variant"`
	Steps     []StepResult   `json:"steps"`
	Failed    int            `json:"failed"`
	Data      map[string]any `json:"data"`
}

// Replay runs the script against a new session of rt. Unknown methods and wrong
// argument counts stop the replay with an error.
func Replay(ctx context.Context, rt *Runtime, script *Script, variant string) (*Report, error) {
	var opts []scorm.Option
	if script.SessionID != "" {
		opts = append(opts, scorm.WithSessionID(script.SessionID))
	}
	sess, err := rt.Manager.Create(ctx, variant, opts...)
	if err != nil {
		return nil, err
	}
	if script.Data != nil {
		sess.LoadFromJSON(script.Data, script.Root)
	}

	report := &Report{SessionID: sess.ID(), Variant: variant}
	for i, step := range script.Steps {
		res, err := rt.Manager.Call(ctx, sess.ID(), step.Call, step.Args...)
		if err != nil {
			return report, fmt.Errorf("step %d: %w", i+1, err)
		}
		sr := StepResult{Call: step.Call, Args: step.Args, Result: res.Result, ErrorCode: res.ErrorCode, OK: true}
		switch {
		case step.Expect != nil && *step.Expect != res.Result:
			sr.OK = false
			sr.Reason = fmt.Sprintf("expected result %q", *step.Expect)
		case step.Error != "" && step.Error != res.ErrorCode:
			sr.OK = false
			sr.Reason = fmt.Sprintf("expected error %s", step.Error)
		}
		if !sr.OK {
			report.Failed++
		}
		report.Steps = append(report.Steps, sr)
	}
	report.Data = sess.ExportJSONObject()
	return report, nil
}

// Execute handles the 'run' command logic.
func Execute(ctx context.Context, opts RunOptions, out io.Writer) error {
	logger := createLogger(opts.Debug)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	script, err := LoadScript(opts.ScriptPath)
	if err != nil {
		return err
	}
	if opts.SessionID != "" {
		script.SessionID = opts.SessionID
	}
	variant := cfg.Variant
	if script.Variant != "" {
		variant = script.Variant
	}
	if opts.Variant != "" {
		variant = opts.Variant
	}

	rt, err := NewRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := Replay(ctx, rt, script, variant)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, step := range report.Steps {
			fmt.Fprintln(out, tui.FormatStep(step.OK, step.Call, step.Args, step.Result, step.ErrorCode, step.Reason))
		}
		fmt.Fprintln(out, tui.FormatSummary(len(report.Steps), report.Failed))
	}

	if report.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrExpectationFailed, report.Failed, len(report.Steps))
	}
	return nil
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout output).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}
