package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pelada/internal/config"
	"pelada/internal/draft"
	"pelada/internal/schedule"
	"pelada/internal/teams"
)

// LeftoversLabel heads the column of surplus players on the Teams sheet.
const LeftoversLabel = "Next Up"

// Generate creates a workbook with a Game sheet for the resolved
// occurrence and a Teams sheet with one column per sorted team.
func Generate(cfg *config.Config, occ *schedule.Occurrence, result *teams.Result, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetDefaultFont("Arial")

	if err := writeGameSheet(f, cfg, occ, now); err != nil {
		return nil, fmt.Errorf("writing game sheet: %w", err)
	}

	if err := writeTeamsSheet(f, result); err != nil {
		return nil, fmt.Errorf("writing teams sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// TeamLabel returns the display label for the i-th team: A, B, ... Z, AA.
func TeamLabel(i int) string {
	return "Team " + colLetter(i+1)
}

// PlayerCell formats a player for a spreadsheet cell. The validator relies
// on this exact "Name (rating)" shape when reading workbooks back.
func PlayerCell(p draft.Player) string {
	return fmt.Sprintf("%s (%d)", p.Name, p.Rating)
}

func writeGameSheet(f *excelize.File, cfg *config.Config, occ *schedule.Occurrence, now time.Time) error {
	sheet := "Game"
	f.NewSheet(sheet)

	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Family: "Arial"},
	})
	valueStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial"},
	})

	rows := [][2]string{
		{"Group", cfg.Group.Name},
	}
	if occ == nil {
		rows = append(rows, [2]string{"Game", "No game scheduled"})
	} else {
		rows = append(rows,
			[2]string{"Date", occ.DateID()},
			[2]string{"Day", occ.Start.Format("Mon")},
			[2]string{"Kickoff", occ.Start.Format("15:04")},
			[2]string{"Status", statusText(*occ, now)},
		)
	}

	for i, r := range rows {
		row := i + 1
		f.SetCellValue(sheet, cellRef(1, row), r[0])
		f.SetCellValue(sheet, cellRef(2, row), r[1])
		if labelStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), labelStyle)
		}
		if valueStyle != 0 {
			f.SetCellStyle(sheet, cellRef(2, row), cellRef(2, row), valueStyle)
		}
	}

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 28)

	return nil
}

func statusText(occ schedule.Occurrence, now time.Time) string {
	switch {
	case !occ.Finished(now) && now.After(occ.Start):
		return "In progress"
	case !occ.Finished(now):
		return "Scheduled"
	case occ.InGrace(now):
		return "Finished (entry open)"
	default:
		return "Finished (entry locked)"
	}
}

func writeTeamsSheet(f *excelize.File, result *teams.Result) error {
	sheet := "Teams"
	f.NewSheet(sheet)

	var headers []string
	for i := range result.Teams {
		headers = append(headers, TeamLabel(i))
	}
	if len(result.Leftovers) > 0 {
		headers = append(headers, LeftoversLabel)
	}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
		}
	}

	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial"},
	})

	columns := make([][]draft.Player, len(result.Teams))
	copy(columns, result.Teams)
	if len(result.Leftovers) > 0 {
		columns = append(columns, result.Leftovers)
	}

	for ci, column := range columns {
		for ri, p := range column {
			row := ri + 2
			f.SetCellValue(sheet, cellRef(ci+1, row), PlayerCell(p))
			if cellStyle != 0 {
				f.SetCellStyle(sheet, cellRef(ci+1, row), cellRef(ci+1, row), cellStyle)
			}
		}
	}

	for i := range columns {
		col := colLetter(i + 1)
		f.SetColWidth(sheet, col, col, 24)
	}

	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
