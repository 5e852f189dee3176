// Package errors provides coded, actionable error messages for the
// changetree command.
//
// Library errors (changetree.ErrNilSource, *changetree.ShapeError and so on)
// stay plain Go errors. This package wraps them at the command boundary so
// the user sees a stable code, a short explanation and a hint.
//
// # Error Codes
//
// Codes are grouped by the area that failed:
//   - E1xx: configuration (changetree.json)
//   - E2xx: event journal (file and S3 sinks)
//   - E3xx: HTTP server and event stream
//   - E4xx: demo scenario and listener tree
//
// # Usage
//
//	err := errors.New("E101").
//	    WithLocation("changetree.json", 4, 12).
//	    WithSuggestion("Remove the trailing comma").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Invalid configuration file
//	//
//	//   changetree.json:4:12
//	//
//	//      3 │   "serve": {
//	//   →  4 │     "port": 8080,
//	//        │            ^
//	//      5 │   },
//	//
//	//   Hint: Remove the trailing comma
package errors
