package main

import (
	"os"

	"github.com/Devon-White/webclip/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
