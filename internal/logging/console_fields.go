package logging

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

// infoHighlightKeys are listed first, in this order, under info records.
var infoHighlightKeys = []string{
	FieldAlert,
	FieldEventType,
	FieldDecisionType,
	FieldDecisionResult,
	FieldDecisionReason,
	"query",
	"folder",
	"best_title",
	"best_score",
	"runner_up_score",
	"threshold",
	"margin",
	"metric",
	"strategy",
	"matcher",
	"state",
	FieldProgressStage,
	FieldProgressPercent,
	"queries",
	"completed",
	"titles",
	"entries",
	"folders",
	"scanned",
	"skipped",
	"accepted",
	"rejected",
	"unmatched",
	"elapsed",
	"per_query",
	"error",
	FieldErrorKind,
	FieldErrorHint,
	FieldImpact,
}

// selectInfoFields returns formatted info-level fields and a count of hidden entries.
// limit=0 means no limit. includeDebug controls whether debug-only keys are allowed.
func selectInfoFields(attrs []kv, limit int, includeDebug bool) ([]infoField, int) {
	if len(attrs) == 0 {
		return nil, 0
	}
	if limit < 0 {
		limit = 0
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, infoAttrLimit)
	hidden := 0

	consider := func(idx int) {
		attr := attrs[idx]
		used[idx] = true
		if skipInfoKey(attr.key) {
			return
		}
		if !includeDebug && isDebugOnlyKey(attr.key) {
			hidden++
			return
		}
		val := formatValueForKey(attr.key, attr.value)
		if !includeDebug && len(val) > 120 && attr.key != "error" {
			hidden++
			return
		}
		if limit > 0 && len(result) >= limit {
			hidden++
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: val})
	}

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				consider(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			consider(idx)
		}
	}
	return result, hidden
}

// formatValueForKey applies friendlier formatting based on the key name.
func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case v.Kind() == slog.KindDuration && isDurationKey(key):
		return formatDurationHuman(v.Duration())
	case v.Kind() == slog.KindFloat64 && isPercentKey(key):
		return formatPercent(v.Float64())
	case v.Kind() == slog.KindFloat64 && isScoreKey(key):
		return fmt.Sprintf("%.4g", v.Float64())
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if key == "error" && len(value) > 200 {
		value = value[:200] + "…"
	}
	return value
}

func isDurationKey(key string) bool {
	return strings.HasSuffix(key, "_duration") ||
		strings.HasSuffix(key, "_elapsed") ||
		key == "elapsed" ||
		key == "per_query" ||
		key == "budget"
}

func isPercentKey(key string) bool {
	return strings.HasSuffix(key, "_percent")
}

func isScoreKey(key string) bool {
	return strings.HasSuffix(key, "_score") || key == "threshold" || key == "margin"
}

func formatDurationHuman(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldCommand, FieldRunID:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case FieldSessionID, "key", "payload", "path", "lock", "candidates":
		return true
	}
	return strings.HasSuffix(key, "_path") || strings.HasSuffix(key, "_key")
}

func displayLabel(key string) string {
	switch key {
	case FieldAlert:
		return "Alert"
	case FieldEventType:
		return "Event"
	case FieldDecisionType:
		return "Decision"
	case FieldDecisionResult:
		return "Result"
	case FieldDecisionReason:
		return "Reason"
	case FieldErrorHint:
		return "Hint"
	case FieldErrorKind:
		return "Error Kind"
	case FieldProgressStage:
		return "Stage"
	case FieldProgressPercent:
		return "Progress"
	case "best_title":
		return "Best"
	case "best_score":
		return "Score"
	case "runner_up_score":
		return "Runner-up"
	case "per_query":
		return "Per Query"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}

// infoSummaryKey scopes repeated-field suppression to one run or component.
func infoSummaryKey(component, runID string, attrs []kv) string {
	if runID = strings.TrimSpace(runID); runID != "" {
		return "run:" + runID
	}
	if folder := attrValue(attrs, "folder"); folder != "" {
		return "folder:" + folder
	}
	return component
}

func attrValue(attrs []kv, key string) string {
	for _, kv := range attrs {
		if kv.key == key {
			return attrString(kv.value)
		}
	}
	return ""
}
