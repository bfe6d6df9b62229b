package main

import (
	"os"

	"github.com/AlfredBerg/rod-profile-scraper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
