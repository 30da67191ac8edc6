// Command boardwatch is a read-only terminal display for the order
// board, meant for a screen above the counter.
package main

import (
	"flag"
	"fmt"
	"os"

	"udonboard/internal/tui"
)

var apiAddr = flag.String("api", "http://localhost:8080", "udonboard API address")

func main() {
	flag.Parse()

	if err := tui.New(*apiAddr).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "boardwatch: %v\n", err)
		os.Exit(1)
	}
}
