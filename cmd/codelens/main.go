// Command codelens extracts code from screenshots and reviews it with a
// code-image analysis service.
//
// Usage:
//
//	codelens [IMAGE]            start the terminal UI
//	codelens scan IMAGE         extract and analyze one image
//	codelens watch DIR          scan every image saved into DIR
//
// See --help for all commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "codelens: %v\n", err)
		return 1
	}
	return 0
}
