package main

import (
	"fmt"
	"os"
	"path/filepath"

	// Packages
	version "github.com/mutablelogic/go-flow/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommands struct {
	Version VersionCommand `cmd:"" group:"MISC" help:"Print version information"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *VersionCommand) Run(ctx *Globals) error {
	_, err := fmt.Fprintln(os.Stdout, string(version.JSON(filepath.Base(os.Args[0]))))
	return err
}
