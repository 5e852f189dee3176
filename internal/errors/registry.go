package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E100": {
		Category:   CategoryConfig,
		Message:    "Configuration file not readable",
		Detail:     "The configuration file exists but could not be read.",
		Suggestion: "Check the file permissions",
	},
	"E101": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "The configuration file is not valid JSON.",
		Suggestion: "Fix the syntax error at the reported position",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or has the wrong form.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration file not writable",
		Detail:   "The configuration could not be saved.",
	},

	// ============================================
	// Journal Errors (E200-E299)
	// ============================================

	"E200": {
		Category:   CategoryJournal,
		Message:    "Journal file could not be opened",
		Detail:     "Events are appended to the journal file as JSON lines.",
		Suggestion: "Check that the directory exists and is writable",
	},
	"E201": {
		Category: CategoryJournal,
		Message:  "Journal write failed",
		Detail:   "An event record could not be written to the journal.",
	},
	"E202": {
		Category:   CategoryJournal,
		Message:    "Invalid journal location",
		Detail:     "S3 journal locations have the form s3://bucket/key.",
		Suggestion: "Use a local path or s3://bucket/prefix",
	},
	"E203": {
		Category:   CategoryJournal,
		Message:    "Journal upload failed",
		Detail:     "The journal could not be uploaded to S3.",
		Suggestion: "Check the bucket name, region and AWS credentials",
	},

	// ============================================
	// Serve Errors (E300-E399)
	// ============================================

	"E300": {
		Category:   CategoryServe,
		Message:    "Server failed to start",
		Detail:     "The HTTP listener could not be bound.",
		Suggestion: "Use --port to choose another port",
	},
	"E301": {
		Category: CategoryServe,
		Message:  "Server shutdown failed",
		Detail:   "Open connections did not close before the shutdown timeout.",
	},

	// ============================================
	// Demo Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryDemo,
		Message:  "Listener tree could not be built",
		Detail:   "The root listener failed to subscribe to the sample graph.",
	},
	"E401": {
		Category: CategoryDemo,
		Message:  "Scenario step failed",
		Detail:   "A mutation in the scripted scenario returned an error.",
	},
	"E402": {
		Category:   CategoryDemo,
		Message:    "Unknown mutation",
		Detail:     "The mutation name is not one of the supported operations.",
		Suggestion: "Run 'changetree demo --help' to list the operations",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
