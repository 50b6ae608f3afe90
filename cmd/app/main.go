package main

import (
	"os"

	"github.com/philsmcc/groupdeedov2/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
