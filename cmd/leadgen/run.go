package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/outreach/internal/app"
	"github.com/octobees/leads-generator/outreach/internal/dto"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once and print the leads as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		application, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		result, err := application.Service.Generate(ctx)
		if err != nil {
			return eris.Wrap(err, "generate leads")
		}
		zap.L().Info("run finished", zap.Int("leads", len(result.Leads)), zap.Int("skipped", result.Skipped))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "    ")
		return enc.Encode(dto.LeadsResponse{Leads: dto.NewLeadRecords(result.Leads)})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
