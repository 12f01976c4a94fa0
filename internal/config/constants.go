package config

const (
	// TracesDir is the subdirectory of the artifact dir holding recorded API traces
	TracesDir = "traces"

	// ReportJSONFilename is the machine-readable report written after a run
	ReportJSONFilename = "report.json"

	// ReportMarkdownFilename is the human-readable summary written after a run
	ReportMarkdownFilename = "SUMMARY.md"

	// ReportVersion identifies the JSON report document format
	ReportVersion = 1

	// DefaultPlanPath is the suite plan used when --plan is not given
	DefaultPlanPath = "plans/default.yaml"
)
