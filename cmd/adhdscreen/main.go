package main

import (
	"fmt"
	"os"

	"github.com/harrison/adhdscreen/internal/cmd"
	"github.com/harrison/adhdscreen/internal/server"
)

// Version is the current version of the adhdscreen application
var Version = "1.0.0"

func main() {
	cmd.Version = Version
	server.Version = Version
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
