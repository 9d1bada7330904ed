// Package main is the entry point for the cvedex vulnerability index service.
package main

//go:generate swag init -g api/api.go -o docs

import (
	"context"
	"fmt"
	"os"

	"cvedex/bootstrap"
	"cvedex/cmd"
)

// run initializes and starts the HTTP service.
func run() error {
	ctx := context.Background()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Start(ctx); err != nil {
		app.Shutdown()
		return fmt.Errorf("failed to start application: %w", err)
	}

	app.WaitForShutdown()
	app.Shutdown()

	return nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "query" {
		cmd.Execute(os.Args[2:])
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
