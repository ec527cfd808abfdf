package main

import (
	"context"
	"fmt"
	"strings"

	"bakery-service/internal/repository"
	"bakery-service/pkg/config"
	"bakery-service/pkg/logger"
	"bakery-service/pkg/sheets"
	"bakery-service/pkg/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and connectivity to Google Sheets and Telegram",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	appConfig, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetLogger(zap.NewNop())

	fmt.Println("Bakery service check")
	fmt.Println(strings.Repeat("=", 40))

	fmt.Println("\nEnvironment:")
	missing := appConfig.Missing()
	if len(missing) == 0 {
		fmt.Println("  All required variables are set")
	}
	for _, name := range missing {
		fmt.Printf("  %-30s MISSING\n", name)
	}

	ctx := context.Background()
	failed := false

	fmt.Println("\nGoogle Sheets:")
	client := sheets.New(&appConfig.Sheets, zap.NewNop())
	if err := client.Connect(ctx); err != nil {
		fmt.Printf("  Status:    FAILED (%s)\n", err)
		failed = true
	} else {
		fmt.Printf("  Status:    CONNECTED (%s)\n", client.Title())
		for _, layout := range repository.Layouts(appConfig.Sheets.Names) {
			rows, err := client.Rows(ctx, layout.Title)
			if err != nil {
				fmt.Printf("  %-12s error: %s\n", layout.Title+":", err)
				failed = true
				continue
			}
			fmt.Printf("  %-12s %d rows\n", layout.Title+":", len(rows))
		}
		client.Close()
	}

	fmt.Println("\nTelegram:")
	botConfig := appConfig.Telegram
	botConfig.Polling = false
	bot := telegram.New(&botConfig, zap.NewNop())
	if err := bot.Connect(ctx); err != nil {
		fmt.Printf("  Status:    FAILED (%s)\n", err)
		failed = true
	} else {
		fmt.Printf("  Status:    CONNECTED (@%s)\n", bot.Username())
		bot.Close()
	}
	fmt.Printf("  Admin id:  %s\n", valueOrDefault(appConfig.Telegram.AdminID, "not configured"))

	if failed {
		return fmt.Errorf("one or more checks failed")
	}
	fmt.Println("\nAll checks passed")
	return nil
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
