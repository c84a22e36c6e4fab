package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/cli"
	"github.com/aretw0/concierge/internal/logging"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive support conversation",
	Long: `Starts a terminal conversation with the concierge assistants. With the
default memory backend a demo passenger and inventory are seeded, so
"what bookings do I have?" has something to answer with.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		sessionID, _ := cmd.Flags().GetString("session")
		callerID, _ := cmd.Flags().GetString("caller")

		logger := logging.New(cfg.Logging.LogLevel())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, cleanup, err := cli.BuildEngine(ctx, cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		if err := cli.RunChat(ctx, engine, cli.ChatOptions{
			SessionID: sessionID,
			CallerID:  callerID,
		}); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("session", "", "Session ID to resume (default: new session)")
	chatCmd.Flags().String("caller", cli.DemoCallerID, "Caller ID to converse as")
}
