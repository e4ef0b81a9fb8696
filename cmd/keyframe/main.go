package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/zurustar/keyframe/pkg/app"
)

//go:embed scenes
var embeddedScenes embed.FS

func main() {
	application := app.New(embeddedScenes)
	if err := application.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
