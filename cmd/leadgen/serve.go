package main

import (
	"github.com/spf13/cobra"

	"github.com/octobees/leads-generator/outreach/internal/app"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Port = servePort
		}

		application, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		return application.Serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
