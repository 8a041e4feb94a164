// Command harnessctl drives the database fixtures outside of go test. It loads
// configuration the way test binaries do, acquires the worker-scoped
// connection, runs one operation through the user façade and releases
// everything before exiting.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
