package main

import (
	"os"

	"verse-tui/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
