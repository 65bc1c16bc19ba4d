package main

import (
	"fmt"
	"os"

	"github.com/flowshot/flowshot/cli"
	"github.com/flowshot/flowshot/commands"
)

func main() {
	err := cli.Execute()

	// tear down the OS-level input hook; ending a session keeps it alive,
	// process exit must not
	_ = commands.GetApp().Hooks.Stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
