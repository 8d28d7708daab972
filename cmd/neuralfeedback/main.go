package main

import (
	"os"

	"github.com/matheusfarocha/NeuralFeedback/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
