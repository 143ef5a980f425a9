package main

import (
	"os"

	"github.com/meower-media/notifications/pkg/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
