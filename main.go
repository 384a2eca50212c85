package main

import (
	"os"

	"github.com/apitemplate/apitemplate/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
