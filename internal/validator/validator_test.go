package validator

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"pelada/internal/config"
	"pelada/internal/draft"
	"pelada/internal/excel"
	"pelada/internal/schedule"
	"pelada/internal/teams"
)

func testConfig() *config.Config {
	return &config.Config{
		Group:      config.Group{Name: "Pelada"},
		Rules:      config.Rules{PlayersPerTeam: 2},
		Guidelines: config.Guidelines{MaxRatingSpread: 2},
		Players: []config.Player{
			{ID: "a", Name: "Ana", Rating: 5, Confirmed: true},
			{ID: "b", Name: "Beto", Rating: 2, Confirmed: true},
			{ID: "c", Name: "Caio", Rating: 4, Confirmed: true},
			{ID: "d", Name: "Duda", Rating: 3, Confirmed: true},
			{ID: "e", Name: "Edu", Rating: 1, Confirmed: false},
		},
	}
}

func testResult() *teams.Result {
	return &teams.Result{
		Teams: [][]draft.Player{
			{{ID: "a", Name: "Ana", Rating: 5}, {ID: "b", Name: "Beto", Rating: 2}},
			{{ID: "c", Name: "Caio", Rating: 4}, {ID: "d", Name: "Duda", Rating: 3}},
		},
	}
}

// writeWorkbook saves a generated teams workbook, applying edits first so
// tests can simulate hand-edited files.
func writeWorkbook(t *testing.T, cfg *config.Config, result *teams.Result, edit func(*excelize.File)) string {
	t.Helper()

	start := time.Date(2026, 3, 5, 21, 0, 0, 0, time.UTC)
	occ := &schedule.Occurrence{Start: start, End: start.Add(2 * time.Hour)}

	f, err := excel.Generate(cfg, occ, result, start)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if edit != nil {
		edit(f)
	}

	path := t.TempDir() + "/teams.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	return path
}

func countByType(violations []Violation) (errors, warnings int) {
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
		case "warning":
			warnings++
		}
	}
	return errors, warnings
}

func TestValidateCleanWorkbook(t *testing.T) {
	cfg := testConfig()
	path := writeWorkbook(t, cfg, testResult(), nil)

	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	errors, warnings := countByType(violations)
	if errors != 0 {
		t.Errorf("errors = %d, want 0: %v", errors, violations)
	}
	if warnings != 0 {
		t.Errorf("warnings = %d, want 0: %v", warnings, violations)
	}
}

func TestValidateUnknownPlayer(t *testing.T) {
	cfg := testConfig()
	path := writeWorkbook(t, cfg, testResult(), func(f *excelize.File) {
		// Replace Beto with someone who isn't on the roster.
		f.SetCellValue("Teams", "A3", "Zeca (2)")
	})

	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	found := false
	for _, v := range violations {
		if v.Type == "error" && v.Message == `Team A: "Zeca" is not in the roster` {
			found = true
		}
	}
	if !found {
		t.Errorf("missing unknown-player error, got %v", violations)
	}
}

func TestValidateDuplicatePlayer(t *testing.T) {
	cfg := testConfig()
	result := testResult()
	// Duda appears on both teams.
	result.Teams[0][1] = draft.Player{ID: "d", Name: "Duda", Rating: 3}

	path := writeWorkbook(t, cfg, result, nil)
	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	errors, _ := countByType(violations)
	if errors == 0 {
		t.Errorf("expected duplicate error, got %v", violations)
	}
}

func TestValidateOversizedTeam(t *testing.T) {
	cfg := testConfig()
	path := writeWorkbook(t, cfg, testResult(), func(f *excelize.File) {
		f.SetCellValue("Teams", "A4", "Edu (1)")
	})

	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	found := false
	for _, v := range violations {
		if v.Type == "error" && v.Message == "Team A has 3 players, max 2" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing oversize error, got %v", violations)
	}
}

func TestValidateOversizedLeftovers(t *testing.T) {
	cfg := testConfig()
	result := testResult()
	result.Teams = result.Teams[:1]
	result.Leftovers = []draft.Player{
		{ID: "c", Name: "Caio", Rating: 4},
		{ID: "d", Name: "Duda", Rating: 3},
	}

	path := writeWorkbook(t, cfg, result, nil)
	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	found := false
	for _, v := range violations {
		if v.Type == "error" && v.Message == "Next Up has 2 players; 2 or more should form another team" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing leftover-size error, got %v", violations)
	}
}

func TestValidateUnconfirmedWarning(t *testing.T) {
	cfg := testConfig()
	result := testResult()
	// Edu hasn't confirmed but is placed on Team B.
	result.Teams[1][1] = draft.Player{ID: "e", Name: "Edu", Rating: 1}

	path := writeWorkbook(t, cfg, result, nil)
	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	found := false
	for _, v := range violations {
		if v.Type == "warning" && v.Message == `Team B: "Edu" has not confirmed attendance` {
			found = true
		}
	}
	if !found {
		t.Errorf("missing unconfirmed warning, got %v", violations)
	}
}

func TestValidateRatingSpreadWarning(t *testing.T) {
	cfg := testConfig()
	result := &teams.Result{
		Teams: [][]draft.Player{
			{{ID: "a", Name: "Ana", Rating: 5}, {ID: "c", Name: "Caio", Rating: 4}},
			{{ID: "b", Name: "Beto", Rating: 2}, {ID: "d", Name: "Duda", Rating: 3}},
		},
	}

	path := writeWorkbook(t, cfg, result, nil)
	violations, err := Validate(cfg, path)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	// Sums are 9 and 5; spread 4 exceeds the guideline of 2.
	found := false
	for _, v := range violations {
		if v.Type == "warning" && v.Message == "rating spread is 4 (min 5, max 9), guideline allows 2" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing spread warning, got %v", violations)
	}
}

func TestParsePlayerCell(t *testing.T) {
	tests := []struct {
		cell   string
		name   string
		rating int
		ok     bool
	}{
		{"Ana (5)", "Ana", 5, true},
		{"João Pedro (3)", "João Pedro", 3, true},
		{"Ana", "", 0, false},
		{"(5)", "", 0, false},
		{"Ana (five)", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		name, rating, ok := parsePlayerCell(tt.cell)
		if ok != tt.ok || name != tt.name || rating != tt.rating {
			t.Errorf("parsePlayerCell(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.cell, name, rating, ok, tt.name, tt.rating, tt.ok)
		}
	}
}

func TestValidateMissingTeamsSheet(t *testing.T) {
	f := excelize.NewFile()
	path := t.TempDir() + "/empty.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	if _, err := Validate(testConfig(), path); err == nil {
		t.Error("expected error for workbook without Teams sheet")
	}
}
