package logging

// Standardized structured logging keys.
const (
	// FieldComponent names the emitting package.
	FieldComponent = "component"
	// FieldCommand names the CLI command being executed.
	FieldCommand = "command"
	// FieldRunID identifies one link or benchmark run.
	FieldRunID = "run_id"
	// FieldEventType tags a record with a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step after a warning or error.
	FieldErrorHint = "error_hint"
	// FieldErrorKind carries matcherr classifications.
	FieldErrorKind = "error_kind"
	// FieldDecisionType tags decision records (for example title_match).
	FieldDecisionType = "decision_type"
	// FieldDecisionResult is the outcome of a decision.
	FieldDecisionResult = "decision_result"
	// FieldDecisionReason explains a decision outcome.
	FieldDecisionReason = "decision_reason"
	// FieldProgressStage names the phase a progress record belongs to.
	FieldProgressStage = "progress_stage"
	// FieldProgressPercent is the completed share of a phase, 0 to 100.
	FieldProgressPercent = "progress_percent"
	// FieldAlert flags warnings or anomalies that should stand out.
	FieldAlert = "alert"
)
