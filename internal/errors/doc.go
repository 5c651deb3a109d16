// Package errors provides structured, actionable error messages for the
// pageroute command.
//
// Errors carry a registered code that maps to a short message, a detailed
// explanation and a category:
//   - config: configuration file or environment problems
//   - manifest: pattern manifest decoding and building
//   - route: pattern compilation, resolution and loading
//   - source: template source access
//   - cli: command usage
//
// # Usage
//
//	err := errors.New("R001").
//	    WithLocation("routes.toml", 3).
//	    WithSuggestion("Escape literal parentheses with a backslash")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Invalid pattern expression
//	//
//	//   routes.toml (pattern 3)
//	//
//	//   Hint: Escape literal parentheses with a backslash
//
// Classify converts the typed errors returned by the router, manifest and
// config packages into coded errors.
package errors
