package main

import (
	"os"

	"github.com/devisefutures/check-CMD-plugin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
