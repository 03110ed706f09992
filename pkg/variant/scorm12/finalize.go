package scorm12

import (
	"strconv"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/ports"
)

// Finalize derives the final lesson status and accumulates total time.
//
// In normal mode with credit and the mastery override, raw vs mastery_score decides
// passed or failed. In browse mode an unset status becomes browsed. Any other status
// the SCO left unset becomes completed.
func Finalize(tree *cmi.Composite, fc ports.FinalizeContext) {
	status := cmi.ValueAt(tree, "cmi.core.lesson_status")
	mode := cmi.ValueAt(tree, "cmi.core.lesson_mode")
	unset := status == "" || status == "not attempted"

	switch mode {
	case "normal":
		if cmi.ValueAt(tree, "cmi.core.credit") == "credit" && fc.MasteryOverride {
			if derived, ok := masteryStatus(tree); ok {
				status, unset = derived, false
			}
		}
	case "browse":
		if unset {
			status, unset = "browsed", false
		}
	}
	if unset {
		status = "completed"
	}
	_ = cmi.Assign(tree, "cmi.core.lesson_status", status)

	AccumulateTime(tree, fc, "cmi.core.session_time", "cmi.core.total_time")
}

func masteryStatus(tree *cmi.Composite) (string, bool) {
	mastery, err := strconv.ParseFloat(cmi.ValueAt(tree, "cmi.student_data.mastery_score"), 64)
	if err != nil {
		return "", false
	}
	raw, err := strconv.ParseFloat(cmi.ValueAt(tree, "cmi.core.score.raw"), 64)
	if err != nil {
		return "", false
	}
	if raw >= mastery {
		return "passed", true
	}
	return "failed", true
}

// AccumulateTime adds the session time to the total time. With self reporting, a
// session time the SCO never set is taken from the elapsed session duration.
func AccumulateTime(tree *cmi.Composite, fc ports.FinalizeContext, sessionPath, totalPath string) {
	session, ok := cmi.LeafAt(tree, sessionPath)
	if !ok {
		return
	}
	if !session.Initialized() && fc.SelfReportSessionTime {
		_ = cmi.Assign(tree, sessionPath, cmi.FormatTimespan(fc.Elapsed))
	}
	elapsed, err := cmi.ParseTimespan(session.Value())
	if err != nil {
		return
	}
	total, err := cmi.ParseTimespan(cmi.ValueAt(tree, totalPath))
	if err != nil {
		total = 0
	}
	_ = cmi.Assign(tree, totalPath, cmi.FormatTimespan(total+elapsed))
}
