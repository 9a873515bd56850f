// Command sitegear serves a Sitegear site.
//
//	sitegear serve --config site/sitegear.yaml
//	sitegear check enquiry contact
//	sitegear migrate
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
