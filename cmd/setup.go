package main

import (
	"context"
	"fmt"

	"bakery-service/internal/repository"
	"bakery-service/pkg/config"
	"bakery-service/pkg/logger"
	"bakery-service/pkg/sheets"

	"github.com/spf13/cobra"
)

func setupSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-sheets",
		Short: "Create the spreadsheet tabs and seed sample catalog data",
		Long: `Connects to the configured spreadsheet, creates any missing sheets,
writes their header rows and adds sample categories and products to
sheets that have no data yet. Running it again changes nothing but headers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			logger.InitLogger(appConfig)
			log := logger.GetLogger()
			defer log.Sync()

			ctx := context.Background()
			client := sheets.New(&appConfig.Sheets, log.Named("sheets"))
			if err := client.Connect(ctx); err != nil {
				return fmt.Errorf("connect to spreadsheet: %w", err)
			}
			defer client.Close()

			fmt.Printf("Connected to spreadsheet: %s\n", client.Title())

			report, err := repository.Setup(ctx, client, appConfig.Sheets.Names, log)
			if err != nil {
				return fmt.Errorf("setup spreadsheet: %w", err)
			}

			fmt.Printf("Sheets created: %d, sheets seeded: %d\n", len(report.Created), len(report.Seeded))
			fmt.Println("Spreadsheet setup completed")
			return nil
		},
	}
}
