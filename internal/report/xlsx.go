package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/policy"
)

// sheetName keeps failsafe names inside Excel's sheet-name rules.
func sheetName(tier int) string {
	if tier == 0 {
		return "No Failsafe"
	}
	return fmt.Sprintf("Failsafe %d", tier)
}

// WritePolicyXLSX writes every failsafe tier of r to its own sheet: a block
// of chosen actions followed by a block of expected costs, both pivoted by
// stage and pity.
func WritePolicyXLSX(r *policy.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	header, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return err
	}
	money, err := fx.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	for tier := 0; tier <= enhance.MaxFailsafe; tier++ {
		name := sheetName(tier)
		if tier == 0 {
			if err := fx.SetSheetName(fx.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := fx.NewSheet(name); err != nil {
			return err
		}
		if err := writeTier(fx, name, r, tier, header, money); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	return fx.SaveAs(path)
}

func writeTier(fx *excelize.File, sheet string, r *policy.Result, tier, header, money int) error {
	rows, err := r.Rows(tier)
	if err != nil {
		return err
	}
	n := r.Model.ChainLength
	costTop := n + 4 // header + n+1 stage rows + blank line, 1-based

	for _, top := range []int{1, costTop} {
		title := "Action"
		if top == costTop {
			title = "Expected cost"
		}
		cells := []any{title}
		for p := 0; p <= enhance.MaxPity; p++ {
			cells = append(cells, fmt.Sprintf("%d/%d", p, enhance.MaxPity))
		}
		cell, _ := excelize.CoordinatesToCellName(1, top)
		if err := fx.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(cells), top)
		if err := fx.SetCellStyle(sheet, cell, last, header); err != nil {
			return err
		}
	}

	for _, row := range rows {
		a, p := row.State.Amp, row.State.Pity
		label := enhance.Stars(a, n)
		if a == n {
			label = row.Label
		}
		for _, top := range []int{1, costTop} {
			lc, _ := excelize.CoordinatesToCellName(1, top+1+a)
			if err := fx.SetCellValue(sheet, lc, label); err != nil {
				return err
			}
		}
		ac, _ := excelize.CoordinatesToCellName(2+p, 2+a)
		if err := fx.SetCellValue(sheet, ac, row.Action.String()); err != nil {
			return err
		}
		cc, _ := excelize.CoordinatesToCellName(2+p, costTop+1+a)
		if err := fx.SetCellValue(sheet, cc, row.Cost); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cc, cc, money); err != nil {
			return err
		}
	}
	return fx.SetColWidth(sheet, "A", "H", 18)
}
