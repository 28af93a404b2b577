package model

// Diagnostic is a non-fatal accumulated finding surfaced via the session's
// diagnostics accessor. It never aborts load or build.
type Diagnostic struct {
	Code     string
	Location string
	Message  string
	Hint     string
	RunID    string // correlates diagnostics from one load() across log lines
}

// Diagnostic codes used across parsing and index building.
const (
	DiagLDeviceNotFound      = "ldevice-not-found"
	DiagDatasetNotFound      = "dataset-not-found"
	DiagCrossVLMergeRejected = "cross-vl-merge-rejected"
)
