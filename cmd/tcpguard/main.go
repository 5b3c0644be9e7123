// Command tcpguard classifies shell commands into binary risk descriptors,
// aggregates chained command risk and proposes safe alternatives.
package main

import (
	"os"

	"github.com/tcpguard/tcpguard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
