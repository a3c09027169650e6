// Package logtail reads the end of the codelens log file for the in-app
// log overlay. Only the tail is read, so large logs stay cheap to open.
package logtail
