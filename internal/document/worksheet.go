package document

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/model"
)

// Fixed worksheet geometry (1-based rows). The grid is a contract:
// every catalog entry renders at its fixed row whether or not matching
// data exists.
const (
	sheetName = "费用明细"

	rowTitle        = 1
	rowVenue        = 3
	rowParticipants = 4
	rowHeader       = 6
	rowCatalogStart = 7 // catalog entry i renders at rowCatalogStart+i
	rowGrandTotal   = 20

	worksheetTitle = "费用明细-培训类"
)

// columnWidths are preset character widths, left to right A..G.
var columnWidths = []float64{10.82, 22.45, 8, 10.55, 23.09, 8, 28.73}

var headerLabels = []string{"项目", "费用项目", "单价", "单位", "数量", "总价", "费用说明"}

// WorksheetBuilder renders ActivityData into the fixed-layout expense
// worksheet.
type WorksheetBuilder struct {
	logger *zap.Logger
}

// NewWorksheetBuilder creates a new WorksheetBuilder.
func NewWorksheetBuilder(logger *zap.Logger) *WorksheetBuilder {
	return &WorksheetBuilder{logger: logger}
}

// WorksheetFilename derives the download name from the activity date
// (digits only) and the channel name.
func WorksheetFilename(data *model.ActivityData) (string, error) {
	digits, err := dateDigits(data.ActivityDate)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s培训费用明细表.xlsx", digits, data.ChannelName), nil
}

type worksheetStyles struct {
	title         int
	header        int
	center        int
	centerWrapped int
	leftWrapped   int
}

// Build renders the worksheet and returns the encoded .xlsx bytes.
// Output is deterministic for unchanged input: no timestamps beyond
// fields already in the data.
func (b *WorksheetBuilder) Build(data *model.ActivityData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	styles, err := newWorksheetStyles(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	if err := b.fillHeaderBand(f, styles, data); err != nil {
		return nil, err
	}
	if err := b.fillCatalogRows(f, styles, data); err != nil {
		return nil, err
	}
	if err := b.fillGrandTotal(f, styles, data); err != nil {
		return nil, err
	}
	if err := b.applyLayout(f); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.logger.Error("Failed to encode expense worksheet", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	b.logger.Info("Expense worksheet generated",
		zap.String("channel_name", data.ChannelName),
		zap.Float64("total_expense", data.TotalExpense()))

	return buf.Bytes(), nil
}

func newWorksheetStyles(f *excelize.File) (*worksheetStyles, error) {
	borderThin := []excelize.Border{
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
	}

	s := &worksheetStyles{}
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "宋体", Size: 14, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "宋体", Size: 11, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"376092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borderThin,
	}); err != nil {
		return nil, err
	}
	if s.center, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "宋体", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borderThin,
	}); err != nil {
		return nil, err
	}
	if s.centerWrapped, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "宋体", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borderThin,
	}); err != nil {
		return nil, err
	}
	if s.leftWrapped, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "宋体", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    borderThin,
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// fillHeaderBand writes the title, the venue/participant rows and the
// column header row. Rows 2 and 5 stay blank spacer rows without
// borders.
func (b *WorksheetBuilder) fillHeaderBand(f *excelize.File, s *worksheetStyles, data *model.ActivityData) error {
	if err := setCell(f, "A1", worksheetTitle, s.title); err != nil {
		return err
	}

	if err := setCell(f, "A3", "培训举办地", s.center); err != nil {
		return err
	}
	if err := setCellStyleRange(f, "A3", "B3", s.center); err != nil {
		return err
	}
	if err := setCell(f, "C3", data.Location, s.leftWrapped); err != nil {
		return err
	}
	if err := setCellStyleRange(f, "C3", "E3", s.leftWrapped); err != nil {
		return err
	}

	if err := setCell(f, "A4", "预估参与人数", s.center); err != nil {
		return err
	}
	if err := setCellStyleRange(f, "A4", "B4", s.center); err != nil {
		return err
	}
	// Blank, not zero, when no count was entered.
	var count interface{} = ""
	if data.ParticipantCount > 0 {
		count = data.ParticipantCount
	}
	if err := setCell(f, "C4", count, s.center); err != nil {
		return err
	}
	if err := setCellStyleRange(f, "C4", "E4", s.center); err != nil {
		return err
	}

	for col, label := range headerLabels {
		cell, err := excelize.CoordinatesToCellName(col+1, rowHeader)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		if err := setCell(f, cell, label, s.header); err != nil {
			return err
		}
	}
	return nil
}

// fillCatalogRows writes one row per fixed catalog entry, substituting
// a zero-valued placeholder when no expense matches, and blanking the
// numeric cells of zero-total rows.
func (b *WorksheetBuilder) fillCatalogRows(f *excelize.File, s *worksheetStyles, data *model.ActivityData) error {
	for i, entry := range model.Catalog {
		row := rowCatalogStart + i
		exp := data.ExpenseByProject(entry.Project)

		// Zero-cost line items render as empty cells, never as 0.
		blank := exp.Total == 0
		description := exp.Description
		if entry.Project == model.ProjectMeals {
			// The training-meal row never carries a description.
			description = ""
		}

		cells := []struct {
			value interface{}
			style int
		}{
			{entry.Category, s.centerWrapped},
			{entry.Project, s.leftWrapped},
			{blankable(blank, exp.Price), s.center},
			{blankable(blank, exp.Unit), s.center},
			{blankable(blank, exp.Quantity), s.center},
			{blankable(blank, exp.Total), s.center},
			{blankable(blank, description), s.leftWrapped},
		}
		for col, c := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
			}
			if err := setCell(f, cell, c.value, c.style); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *WorksheetBuilder) fillGrandTotal(f *excelize.File, s *worksheetStyles, data *model.ActivityData) error {
	row := rowGrandTotal
	if err := setCell(f, fmt.Sprintf("A%d", row), "合计", s.center); err != nil {
		return err
	}
	if err := setCell(f, fmt.Sprintf("B%d", row), "", s.center); err != nil {
		return err
	}
	var total interface{} = ""
	if sum := data.TotalExpense(); sum != 0 {
		total = sum
	}
	if err := setCell(f, fmt.Sprintf("F%d", row), total, s.center); err != nil {
		return err
	}
	for _, col := range []string{"C", "D", "E", "G"} {
		if err := setCell(f, col+fmt.Sprint(row), "", s.center); err != nil {
			return err
		}
	}
	return nil
}

// applyLayout sets the fixed merges and column widths.
func (b *WorksheetBuilder) applyLayout(f *excelize.File) error {
	merges := [][2]string{
		{"A1", "G1"},
		{"A3", "B3"},
		{"C3", "E3"},
		{"A4", "B4"},
		{"C4", "E4"},
		{fmt.Sprintf("A%d", rowGrandTotal), fmt.Sprintf("B%d", rowGrandTotal)},
	}
	for _, span := range model.CategorySpans {
		merges = append(merges, [2]string{
			fmt.Sprintf("A%d", rowCatalogStart+span.Start),
			fmt.Sprintf("A%d", rowCatalogStart+span.End),
		})
	}
	for _, m := range merges {
		if err := f.MergeCell(sheetName, m[0], m[1]); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
	}
	return nil
}

// blankable renders the zero-cost policy: when blank, every data cell
// of the row becomes the empty string regardless of its stored value.
func blankable(blank bool, value interface{}) interface{} {
	if blank {
		return ""
	}
	return value
}

func setCell(f *excelize.File, cell string, value interface{}, style int) error {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrEncodeFailed, cell, err)
	}
	if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
		return fmt.Errorf("%w: style %s: %v", ErrEncodeFailed, cell, err)
	}
	return nil
}

func setCellStyleRange(f *excelize.File, from, to string, style int) error {
	if err := f.SetCellStyle(sheetName, from, to, style); err != nil {
		return fmt.Errorf("%w: style %s:%s: %v", ErrEncodeFailed, from, to, err)
	}
	return nil
}
