package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askbase/askbase/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "askbased",
		Short: "Askbase daemon and CLI",
		Long:  "Askbase daemon for running the document Q&A API server and ingesting documents",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IngestCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
