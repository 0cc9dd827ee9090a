package main

import (
	"os"

	"github.com/karimzak/shopchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
