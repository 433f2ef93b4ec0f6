package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/redbco/nosqldb/internal/shellclient"
)

// rootCmd represents the base nosql-shell command.
var rootCmd = &cobra.Command{
	Use:   "nosql-shell",
	Short: "Interact with a NoSQL data service from the terminal",
	Long:  `nosql-shell drives Get/Put/Delete/Query and table DDL operations against the tagged-binary wire-protocol data service.`,
}

var connectOpts shellclient.ConnectOptions

func init() {
	rootCmd.PersistentFlags().StringVar(&connectOpts.Endpoint, "endpoint", "http://localhost:8080", "service endpoint URL")
	rootCmd.PersistentFlags().DurationVar(&connectOpts.Timeout, "timeout", 5*time.Second, "default per-call timeout")
	rootCmd.PersistentFlags().StringVar(&connectOpts.Compartment, "compartment", "", "cloud compartment OCID or on-premise namespace")
	setupCommands()
}
