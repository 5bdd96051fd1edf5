// Package main is the single-binary entrypoint for lernpfad.
package main

import "github.com/lernpfad/lernpfad/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
