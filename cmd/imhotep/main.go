package main

import (
	"os"

	"github.com/Imhotep-Tech/imhotep-tasks/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
