package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pelada/internal/config"
	"pelada/internal/excel"
)

// Violation represents a problem found in a teams workbook.
type Violation struct {
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a teams Excel file (possibly hand-edited after export)
// and checks it against the group config: membership, team sizes, and
// rating balance.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	columns, err := readTeams(f)
	if err != nil {
		return nil, fmt.Errorf("reading teams: %w", err)
	}

	var violations []Violation
	violations = append(violations, checkMembership(cfg, columns)...)
	violations = append(violations, checkSizes(cfg, columns)...)
	violations = append(violations, checkBalance(cfg, columns)...)

	return violations, nil
}

// teamColumn is one parsed column of the Teams sheet.
type teamColumn struct {
	Label   string
	Players []parsedPlayer
}

type parsedPlayer struct {
	Name   string
	Rating int
}

func readTeams(f *excelize.File) ([]teamColumn, error) {
	rows, err := f.GetRows("Teams")
	if err != nil {
		return nil, fmt.Errorf("reading Teams sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Teams sheet is empty")
	}

	header := rows[0]
	columns := make([]teamColumn, len(header))
	for i, label := range header {
		columns[i].Label = label
	}

	for _, row := range rows[1:] {
		for ci := range columns {
			if ci >= len(row) || row[ci] == "" {
				continue
			}
			name, rating, ok := parsePlayerCell(row[ci])
			if !ok {
				// Cells that don't match "Name (rating)" are treated as
				// free-form notes and skipped.
				continue
			}
			columns[ci].Players = append(columns[ci].Players, parsedPlayer{Name: name, Rating: rating})
		}
	}

	return columns, nil
}

// parsePlayerCell parses "Name (rating)" and returns (name, rating, true).
func parsePlayerCell(cell string) (string, int, bool) {
	open := strings.LastIndex(cell, " (")
	if open < 1 || !strings.HasSuffix(cell, ")") {
		return "", 0, false
	}
	rating, err := strconv.Atoi(cell[open+2 : len(cell)-1])
	if err != nil {
		return "", 0, false
	}
	return cell[:open], rating, true
}

func checkMembership(cfg *config.Config, columns []teamColumn) []Violation {
	roster := make(map[string]config.Player)
	for _, p := range cfg.Players {
		roster[p.Name] = p
	}

	var violations []Violation
	seen := make(map[string]string) // player name -> column label
	for _, col := range columns {
		for _, p := range col.Players {
			entry, known := roster[p.Name]
			if !known {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("%s: %q is not in the roster", col.Label, p.Name),
				})
				continue
			}
			if prev, dup := seen[p.Name]; dup {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("%q appears in both %s and %s", p.Name, prev, col.Label),
				})
			}
			seen[p.Name] = col.Label

			if !entry.Confirmed && col.Label != excel.LeftoversLabel {
				violations = append(violations, Violation{
					Type:    "warning",
					Message: fmt.Sprintf("%s: %q has not confirmed attendance", col.Label, p.Name),
				})
			}
		}
	}
	return violations
}

func checkSizes(cfg *config.Config, columns []teamColumn) []Violation {
	var violations []Violation
	for _, col := range columns {
		if col.Label == excel.LeftoversLabel {
			if len(col.Players) >= cfg.Rules.PlayersPerTeam {
				violations = append(violations, Violation{
					Type: "error",
					Message: fmt.Sprintf("%s has %d players; %d or more should form another team",
						col.Label, len(col.Players), cfg.Rules.PlayersPerTeam),
				})
			}
			continue
		}
		if len(col.Players) > cfg.Rules.PlayersPerTeam {
			violations = append(violations, Violation{
				Type: "error",
				Message: fmt.Sprintf("%s has %d players, max %d",
					col.Label, len(col.Players), cfg.Rules.PlayersPerTeam),
			})
		}
	}
	return violations
}

func checkBalance(cfg *config.Config, columns []teamColumn) []Violation {
	var violations []Violation

	minSum, maxSum := 0, 0
	first := true
	for _, col := range columns {
		if col.Label == excel.LeftoversLabel || len(col.Players) == 0 {
			continue
		}
		sum := 0
		for _, p := range col.Players {
			sum += p.Rating
		}
		if first {
			minSum, maxSum = sum, sum
			first = false
			continue
		}
		if sum < minSum {
			minSum = sum
		}
		if sum > maxSum {
			maxSum = sum
		}
	}

	if !first && maxSum-minSum > cfg.Guidelines.MaxRatingSpread {
		violations = append(violations, Violation{
			Type: "warning",
			Message: fmt.Sprintf("rating spread is %d (min %d, max %d), guideline allows %d",
				maxSum-minSum, minSum, maxSum, cfg.Guidelines.MaxRatingSpread),
		})
	}

	return violations
}
