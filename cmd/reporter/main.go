package main

import (
	"os"

	"github.com/warp/loyalty-reporter/cmd/reporter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
