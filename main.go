// Package main is the entry point for the modup CLI application.
//
// This file bootstraps the application by invoking the command execution
// logic defined in the cmd package. The modup tool scans an installed mod
// collection, resolves compatible updates against the mod database, and
// applies them with backups.
package main

import "github.com/bruneval/modup/cmd"

// main initializes and runs the modup CLI application.
//
// It delegates all command parsing and execution to the cmd package,
// which handles subcommands like list, check, update, and backups.
func main() {
	cmd.Execute()
}
