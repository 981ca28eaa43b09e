// Command dbcmd generates data access code for annotated command structs.
//
//	dbcmd generate ./...   write the generated files
//	dbcmd check ./...      report diagnostics only
//	dbcmd watch ./...      regenerate on every source change
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "dbcmd:", err)
		}
		stop()
		os.Exit(1)
	}
}
