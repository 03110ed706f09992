package scorm2004

import (
	"strconv"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/ports"
)

// Finalize derives completion and success from their thresholds and accumulates
// total time. Status derivation applies only in normal mode with credit.
func Finalize(tree *cmi.Composite, fc ports.FinalizeContext) {
	if cmi.ValueAt(tree, "cmi.mode") == "normal" && cmi.ValueAt(tree, "cmi.credit") == "credit" {
		if measure, threshold, ok := pair(tree, "cmi.progress_measure", "cmi.completion_threshold"); ok {
			status := "incomplete"
			if measure >= threshold {
				status = "completed"
			}
			_ = cmi.Assign(tree, "cmi.completion_status", status)
		}
		if scaled, passing, ok := pair(tree, "cmi.score.scaled", "cmi.scaled_passing_score"); ok {
			status := "failed"
			if scaled >= passing {
				status = "passed"
			}
			_ = cmi.Assign(tree, "cmi.success_status", status)
		}
	}
	accumulate(tree, fc)
}

func pair(tree *cmi.Composite, valuePath, thresholdPath string) (float64, float64, bool) {
	value, err := number(tree, valuePath)
	if err != nil {
		return 0, 0, false
	}
	threshold, err := number(tree, thresholdPath)
	if err != nil {
		return 0, 0, false
	}
	return value, threshold, true
}

func number(tree *cmi.Composite, path string) (float64, error) {
	return strconv.ParseFloat(cmi.ValueAt(tree, path), 64)
}

func accumulate(tree *cmi.Composite, fc ports.FinalizeContext) {
	session, ok := cmi.LeafAt(tree, "cmi.session_time")
	if !ok {
		return
	}
	if !session.Initialized() && fc.SelfReportSessionTime {
		_ = cmi.Assign(tree, "cmi.session_time", cmi.FormatISODuration(fc.Elapsed))
	}
	elapsed, err := cmi.ParseISODuration(session.Value())
	if err != nil {
		return
	}
	total, err := cmi.ParseISODuration(cmi.ValueAt(tree, "cmi.total_time"))
	if err != nil {
		total = 0
	}
	_ = cmi.Assign(tree, "cmi.total_time", cmi.FormatISODuration(total+elapsed))
}
