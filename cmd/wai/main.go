package main

import (
	"os"

	"github.com/workai-app/workai-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
