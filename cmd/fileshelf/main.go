package main

import (
	"os"

	"github.com/dstielow/fileshelf/cmd/fileshelf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
