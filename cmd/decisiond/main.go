package main

import (
	"github.com/soubim/decisiond/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
