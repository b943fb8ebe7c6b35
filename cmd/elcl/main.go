package main

import (
	"os"

	"github.com/erbsland-dev/erbsland-conf-go/cmd/elcl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
