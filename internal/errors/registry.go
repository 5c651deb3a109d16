package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Route Errors (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRoute,
		Message:  "Invalid pattern expression",
		Detail:   "A pattern's regular expression failed to compile. Patterns use RE2 syntax; lookarounds and backreferences are not supported.",
	},
	"R002": {
		Category: CategoryRoute,
		Message:  "No pattern matches the URL",
		Detail:   "The URL path was tried against every pattern in order and none of them matched.",
	},
	"R003": {
		Category: CategoryRoute,
		Message:  "Route content failed to load",
		Detail:   "A page, layout or data loader returned an error while the matched route was being loaded.",
	},
	"R004": {
		Category: CategoryRoute,
		Message:  "Invalid pattern",
		Detail:   "A pattern is missing its page, has a layout without a page, or constrains a slug that is not a named group.",
	},
	"R005": {
		Category: CategoryRoute,
		Message:  "Invalid URL path",
		Detail:   "The URL path contains a backslash, a NUL byte, an invalid percent escape, an encoded slash or a '..' that climbs above the root.",
	},
	"R006": {
		Category: CategoryRoute,
		Message:  "No patterns defined",
		Detail:   "The manifest does not define any patterns.",
	},

	// ============================================
	// Manifest Errors (M001-M099)
	// ============================================

	"M001": {
		Category: CategoryManifest,
		Message:  "Manifest not found",
		Detail:   "The manifest file does not exist.",
	},
	"M002": {
		Category: CategoryManifest,
		Message:  "Invalid manifest",
		Detail:   "The manifest could not be decoded. Unknown fields are rejected.",
	},
	"M003": {
		Category: CategoryManifest,
		Message:  "Invalid manifest entry",
		Detail:   "A manifest entry has an unknown side, option, slug type or data loader.",
	},
	"M004": {
		Category: CategoryManifest,
		Message:  "Unsupported manifest format",
		Detail:   "Manifests must use the .json, .toml, .yaml or .yml extension.",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Failed to read configuration",
		Detail:   "The configuration file exists but could not be read or parsed.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or not recognized.",
	},

	// ============================================
	// Source Errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategorySource,
		Message:  "Template not found",
		Detail:   "A page, layout or error template key does not exist in the content source.",
	},
	"S002": {
		Category: CategorySource,
		Message:  "Content source unavailable",
		Detail:   "The content source could not be initialized.",
	},

	// ============================================
	// CLI Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
