// Command mazeroute solves maze images.
//
// Exit status is 0 on success, 2 when a maze has no entrance, no exit or
// no route, 130 when interrupted and 1 for any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/mazeroute/internal/cli"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	}
	if code := errs.GetCode(err); code != "" {
		fmt.Fprintf(os.Stderr, "%s: %v\n", code, err)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	if errs.IsMazeError(err) {
		return 2
	}
	return 1
}
