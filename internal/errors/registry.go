package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
	DocURL     string
}

const docBase = "https://pathway.vango.dev/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (R001-R099)
	// ============================================

	"R001": {
		Category:   CategoryRouting,
		Message:    "Route not found",
		Suggestion: "Check the route name against the names passed to router.New",
		DocURL:     docBase + "R001",
	},
	"R002": {
		Category:   CategoryRouting,
		Message:    "No route matches path",
		Suggestion: "Routes are tried in registration order; register a pattern that matches this path",
		DocURL:     docBase + "R002",
	},
	"R003": {
		Category:   CategoryRouting,
		Message:    "Route has no handler",
		Suggestion: "Give the route a callback, a registered component key, or both",
		DocURL:     docBase + "R003",
	},
	"R004": {
		Category:   CategoryRouting,
		Message:    "Invalid route pattern",
		Suggestion: "Patterns use static segments, :name parameters and a trailing *name catch-all",
		DocURL:     docBase + "R004",
	},
	"R005": {
		Category:   CategoryRouting,
		Message:    "Duplicate route name",
		Suggestion: "Route names must be unique",
		DocURL:     docBase + "R005",
	},
	"R006": {
		Category: CategoryRouting,
		Message:  "Navigation superseded",
		DocURL:   docBase + "R006",
	},
	"R007": {
		Category:   CategoryRouting,
		Message:    "Component mount failed",
		Suggestion: "Check that Mount was called with a valid target before navigating",
		DocURL:     docBase + "R007",
	},

	// ============================================
	// Hook Errors (K001-K099)
	// ============================================

	"K001": {
		Category: CategoryHook,
		Message:  "Navigation cancelled by before hook",
		DocURL:   docBase + "K001",
	},
	"K002": {
		Category:   CategoryHook,
		Message:    "Navigation cancelled by after hook",
		Suggestion: "The history entry was already written; call Back or Replace to undo it",
		DocURL:     docBase + "K002",
	},

	// ============================================
	// History Errors (H001-H099)
	// ============================================

	"H001": {
		Category:   CategoryHistory,
		Message:    "Unsupported history mode",
		Suggestion: "Use mode \"hash\" or \"memory\", or enable hashFallback",
		DocURL:     docBase + "H001",
	},
	"H002": {
		Category: CategoryHistory,
		Message:  "History write failed",
		DocURL:   docBase + "H002",
	},
	"H003": {
		Category:   CategoryHistory,
		Message:    "Router is not functional",
		Suggestion: "The history adapter failed to initialize; see the earlier H001 error",
		DocURL:     docBase + "H003",
	},
	"H004": {
		Category: CategoryHistory,
		Message:  "Remote window protocol error",
		DocURL:   docBase + "H004",
	},

	// ============================================
	// Config Errors (C120-C149)
	// ============================================

	"C120": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check that the file is valid JSON, YAML or TOML",
		DocURL:     docBase + "C120",
	},
	"C121": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create pathway.json, pathway.yaml or pathway.toml, or pass --config",
		DocURL:     docBase + "C121",
	},
	"C122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   docBase + "C122",
	},
	"C123": {
		Category:   CategoryConfig,
		Message:    "Unsupported configuration format",
		Suggestion: "Use a .json, .yaml, .yml or .toml extension",
		DocURL:     docBase + "C123",
	},

	// ============================================
	// CLI Errors (X140-X149)
	// ============================================

	"X140": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		DocURL:   docBase + "X140",
	},
	"X141": {
		Category:   CategoryCLI,
		Message:    "Unknown simulation step",
		Suggestion: "Steps are push:/path, replace:/path, name:route?k=v, back, forward and go:N",
		DocURL:     docBase + "X141",
	},
	"X142": {
		Category: CategoryCLI,
		Message:  "Command failed",
		DocURL:   docBase + "X142",
	},
}

// GetAllCodes returns all registered error codes, sorted.
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
