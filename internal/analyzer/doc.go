// Package analyzer provides an HTTP client for the external code analysis service.
//
// # Overview
//
// The service does all of the heavy lifting: it turns a screenshot of code into
// text (OCR) and judges a piece of code for readability and likely bug type.
// This package only speaks its HTTP contract.
//
// # API Endpoints
//
//   - GET /health: liveness probe, any 2xx means available
//   - POST /upload with multipart field "file": returns {"extracted_text": string}
//   - POST /upload with multipart field "code": returns {"readability": 0|1, "bugs": string}
//
// Extraction and analysis share one path and are told apart only by which form
// field is populated. WithPaths can point either operation at a different path
// for deployments that split them.
//
// # Client Usage
//
//	client, err := analyzer.NewClient("http://localhost:5000")
//	if err != nil {
//		log.Fatalf("init client: %v", err)
//	}
//
//	text, err := client.Extract(ctx, "shot.png", data)
//	if err != nil {
//		log.Printf("extract failed: %v", err)
//	}
//
//	result, err := client.Analyze(ctx, text)
//
// # Error Handling
//
// Every failure is an *Error with one of three kinds:
//
//   - KindNetwork: connection refused, DNS failure, timeout, cancelled context
//   - KindHTTP: non-2xx status; Detail holds the service's {"error": ...} message
//   - KindMalformed: 2xx body that is not an object, or a field that is
//     missing, null, or of the wrong type; readability outside {0, 1}
//
// Use IsKind and StatusCode to branch on them. The client never retries;
// callers decide whether the user re-triggers an action.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package analyzer
