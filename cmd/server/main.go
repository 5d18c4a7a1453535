// Package main is the entry point for the QuestForge server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "questforge-api",
	Short: "QuestForge RPG engine",
	Long:  `QuestForge provides turn-based combat, character progression, quests, and an item economy for browser RPG clients.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
