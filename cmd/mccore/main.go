// Command mccore is a command-line Minecraft launcher core: account and
// instance management, version resolution, and game launching.
package main

import (
	"fmt"
	"os"

	"github.com/quasar/mccore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
