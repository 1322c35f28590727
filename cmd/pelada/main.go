package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pelada/internal/config"
	"pelada/internal/draft"
	"pelada/internal/excel"
	"pelada/internal/rotation"
	"pelada/internal/schedule"
	"pelada/internal/teams"
	"pelada/internal/validator"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pelada",
		Short: "Recurring pickup-game scheduler and team sorter",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	nextCmd := &cobra.Command{
		Use:          "next",
		Short:        "Show the active or next game occurrence",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runNext(configPath)
		},
	}

	teamsCmd := &cobra.Command{
		Use:   "teams",
		Short: "Sort and validate balanced teams",
	}

	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Sort confirmed players into balanced teams",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(configPath, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "teams.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate <teams.xlsx>",
		Short:        "Validate a teams file against the group config",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	gearCmd := &cobra.Command{
		Use:          "gear",
		Short:        "Show who brings the gear next",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGear(configPath)
		},
	}

	teamsCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, nextCmd, teamsCmd, gearCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Pelada Group Configuration
# ==========================
# This file defines the recurring game schedule and the player roster.

group:
  name: "Pelada de Quinta"

# Weekly schedule. Keys are Portuguese weekday names:
# domingo, segunda, terca, quarta, quinta, sexta, sabado.
# Only days with selected: true count; times use 24-hour "HH:MM".
# Games last 2 hours from kickoff.
schedule:
  quinta:
    selected: true
    time: "21:00"
  sabado:
    selected: false
    time: "16:00"

# Draft scheme used to distribute players across teams.
# "snake" alternates pick order each pass to balance team strength.
draft: snake

rules:
  players_per_team: 5   # Team size; surplus players become the Next Up group

guidelines:
  max_rating_spread: 2  # Warn when team rating sums differ by more than this

# Roster. Ratings run 1 (beginner) to 5 (strongest); missing or invalid
# ratings count as 1. Set confirmed: true for players attending the next
# game, and brought_gear: true once a player has taken a gear-duty turn.
players:
  - id: rafa
    name: Rafael
    rating: 4
    confirmed: true
    brought_gear: true
  - id: gui
    name: Guilherme
    rating: 3
    confirmed: true
  - id: pedro
    name: Pedro
    rating: 5
    confirmed: true
  - id: lucas
    name: Lucas
    rating: 2
    confirmed: false
`

func runNext(configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	now := time.Now()
	occ := schedule.Resolve(cfg.Schedule, now)
	if occ == nil {
		fmt.Println("No game scheduled in the next two weeks.")
		return nil
	}

	fmt.Printf("Game %s (%s) at %s\n", occ.DateID(), occ.Start.Format("Monday"), occ.Start.Format("15:04"))

	switch {
	case now.Before(occ.Start):
		fmt.Printf("  Kickoff in %s\n", occ.Start.Sub(now).Round(time.Minute))
	case !occ.Finished(now):
		fmt.Println("  In progress")
	case occ.InGrace(now):
		fmt.Println("  Finished — presence and goals still open")
	}
	if occ.ConfirmationLocked(now) {
		fmt.Println("  Confirmation window closed")
	}

	return nil
}

func runGenerate(configPath, outputPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	drafter, err := draft.Get(cfg.Draft)
	if err != nil {
		return err
	}

	confirmed := cfg.ConfirmedPlayers()
	roster := make([]draft.Player, len(confirmed))
	for i, p := range confirmed {
		roster[i] = draft.Player{ID: p.ID, Name: p.Name, Rating: p.Rating}
	}

	sorter := teams.NewSorter(nil, drafter)
	result, err := sorter.Sort(roster, cfg.Rules.PlayersPerTeam)
	if err != nil {
		return fmt.Errorf("sorting teams: %w", err)
	}

	fmt.Printf("Sorted %d confirmed players into %d teams of %d\n",
		len(roster), len(result.Teams), cfg.Rules.PlayersPerTeam)

	for i, team := range result.Teams {
		fmt.Printf("\n%s (rating %d):\n", excel.TeamLabel(i), teams.TeamSum(team))
		for _, p := range team {
			fmt.Printf("  %s\n", excel.PlayerCell(p))
		}
	}
	if len(result.Leftovers) > 0 {
		fmt.Printf("\n%s:\n", excel.LeftoversLabel)
		for _, p := range result.Leftovers {
			fmt.Printf("  %s\n", excel.PlayerCell(p))
		}
	}

	now := time.Now()
	occ := schedule.Resolve(cfg.Schedule, now)

	f, err := excel.Generate(cfg, occ, result, now)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Teams saved to %s\n", outputPath)
	return nil
}

func runValidate(configPath, teamsPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, teamsPath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d errors, %d warnings\n", errors, warnings)
	if errors > 0 {
		return fmt.Errorf("%d errors found", errors)
	}
	return nil
}

func runGear(configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	picked, wrapped, err := rotation.Next(cfg.Players)
	if err != nil {
		return err
	}

	fmt.Printf("Gear duty: %s\n", picked.Name)
	if wrapped {
		fmt.Println("Everyone has taken a turn — reset brought_gear flags to start a new round.")
	}
	return nil
}
