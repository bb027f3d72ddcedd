package main

import (
	"os"

	"github.com/relaone/relaone-web/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
