// Package health probes the analysis service before the user starts work.
//
// A probe runs once at startup and again only when the user asks for it.
// Non-2xx answers, network failures and timeouts all collapse to
// Unavailable; callers show a retry hint and keep running.
package health
