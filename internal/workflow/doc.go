// Package workflow owns the state of one upload, extract, edit, analyze
// session.
//
// # States
//
//	Idle ──SelectImage──> ImageSelected ──BeginExtract──> Extracting
//	                                                          │
//	        ┌──────────────── CompleteExtract(ok) <───────────┘
//	        v
//	    CodeReady ──BeginAnalyze──> Analyzing ──CompleteAnalyze(ok)──> Analyzed
//	        ^                                                            │
//	        └──────────────────────── EditCode ───────────────────────────┘
//
// SelectImage is legal from every state and discards everything downstream.
// A failed call leaves the workflow where it was before the call started and
// records the error for display; nothing retries automatically.
//
// # Stale responses
//
// Calls are split into Begin (guards, flag set, token issued) and Complete
// (token checked, result applied). The token carries the image generation
// and the code revision at Begin time. Completing with a token from an older
// generation is a no-op; an analysis whose code was edited while in flight
// clears the analyzing flag but stores nothing.
//
// # Concurrency
//
// Workflow is safe for concurrent use. Network calls happen outside its lock,
// between Begin and Complete.
package workflow
