// Command apiserver runs the dashboard API.  It is equivalent to "obr serve"
// and exists for container images that expect a single-purpose binary.
package main

import (
	"os"

	"github.com/turtacn/readiness-dashboard/internal/interfaces/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	root := cli.NewRootCommand()
	root.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := root.Execute(); err != nil {
		cli.PrintError(root, err)
		os.Exit(1)
	}
}

//Personal.AI order the ending
