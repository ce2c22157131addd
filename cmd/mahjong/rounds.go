package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-mahjong/internal/config"
	"github.com/vovakirdan/tui-mahjong/internal/storage"
)

var (
	flagRoundsLimit int
	flagRoundsClear bool
)

var roundsCmd = &cobra.Command{
	Use:   "rounds [round-id]",
	Short: "Print round history",
	Long: `Display the most recent rounds, or the details of one round.

A round can be replayed exactly by passing its seed, policy and wall
limit back to 'mahjong play'.

Examples:
  mahjong rounds
  mahjong rounds --limit 50
  mahjong rounds 2f0c9a4e-5b7d-4c1e-9a53-6f1e2d3c4b5a
  mahjong rounds --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRounds,
}

func init() {
	roundsCmd.Flags().IntVar(&flagRoundsLimit, "limit", 20, "Number of rounds to show")
	roundsCmd.Flags().BoolVar(&flagRoundsClear, "clear", false, "Delete all round history")
}

func runRounds(cmd *cobra.Command, args []string) {
	store := mustOpenStore(cmd)
	defer store.Close()

	if flagRoundsClear {
		if err := store.ClearRounds(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing rounds: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Round history cleared.")
		return
	}

	if len(args) == 1 {
		printRound(store, args[0])
		return
	}

	rounds, err := store.RecentRounds(flagRoundsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving rounds: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent Rounds")
	fmt.Println()

	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Run 'mahjong play' to deal the first round!")
		return
	}

	fmt.Printf("  %-16s  %-20s  %-7s  %-6s  %5s  %s\n", "Date", "Seed", "Policy", "Mode", "Draws", "Result")
	fmt.Printf("  %-16s  %-20s  %-7s  %-6s  %5s  %s\n", "----", "----", "------", "----", "-----", "------")
	for _, r := range rounds {
		fmt.Printf("  %-16s  %-20d  %-7s  %-6s  %5d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Seed, r.Policy, r.Mode, r.Draws, r.Reason)
	}

	stats, err := store.Stats()
	if err == nil && stats.Rounds > 0 {
		fmt.Println()
		fmt.Printf("Total: %d rounds, %.1f draws on average\n", stats.Rounds, stats.AvgDraws)
	}
}

func printRound(store *storage.Store, id string) {
	r, err := store.RoundByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving round: %v\n", err)
		os.Exit(1)
	}
	if r == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown round %q\n", id)
		os.Exit(1)
	}

	fmt.Printf("Round      %s\n", r.RoundID)
	fmt.Printf("Played     %s by %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source)
	fmt.Printf("Seed       %d\n", r.Seed)
	fmt.Printf("Policy     %s\n", r.Policy)
	fmt.Printf("Mode       %s\n", r.Mode)
	fmt.Printf("Red fives  %t\n", r.RedFives)
	if r.WallLimit > 0 {
		fmt.Printf("Wall limit %d\n", r.WallLimit)
	}
	fmt.Printf("Indicator  %s\n", r.Indicator)
	fmt.Printf("Result     %s after %d draws, %d discards\n", r.Reason, r.Draws, r.Discards)
	fmt.Printf("Duration   %s\n", r.Duration)
}

// mustOpenStore opens the history database named by --db or the config.
func mustOpenStore(cmd *cobra.Command) *storage.Store {
	cfg, err := config.Load(flagConfig)
	exitOnError(err)
	path := cfg.Storage.Path
	if cmd.Flags().Changed("db") {
		path = flagDBPath
	}

	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rounds database: %v\n", err)
		os.Exit(1)
	}
	return store
}
