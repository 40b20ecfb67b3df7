package main

import (
	"os"

	"quiz-ladders/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
