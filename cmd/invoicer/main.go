package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Help output must not trigger the first-run password prompt
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" || a == "completion" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		a, err := app.New(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			return 1
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
