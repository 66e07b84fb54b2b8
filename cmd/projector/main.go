package main

import (
	"os"

	"github.com/projectorcli/projector/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
