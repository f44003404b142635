package main

import (
	"os"

	"github.com/studyhive/studyhive/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
