package document

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/model"
)

func buildTestData() *model.ActivityData {
	data := model.DefaultActivityData(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	data.ChannelName = "示例渠道"
	data.Location = "成都市测试会场"
	data.ParticipantCount = 35
	return data
}

func openWorksheet(t *testing.T, blob []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheetName, ref)
	require.NoError(t, err)
	return v
}

func TestWorksheetFilename(t *testing.T) {
	data := buildTestData()
	name, err := WorksheetFilename(data)
	require.NoError(t, err)
	assert.Equal(t, "20240615示例渠道培训费用明细表.xlsx", name)

	data.ActivityDate = "bad"
	_, err = WorksheetFilename(data)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestWorksheetHeaderBand(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	blob, err := builder.Build(buildTestData())
	require.NoError(t, err)

	f := openWorksheet(t, blob)

	assert.Equal(t, "费用明细-培训类", cell(t, f, "A1"))
	assert.Equal(t, "培训举办地", cell(t, f, "A3"))
	assert.Equal(t, "成都市测试会场", cell(t, f, "C3"))
	assert.Equal(t, "预估参与人数", cell(t, f, "A4"))
	assert.Equal(t, "35", cell(t, f, "C4"))

	for col, want := range headerLabels {
		ref, err := excelize.CoordinatesToCellName(col+1, rowHeader)
		require.NoError(t, err)
		assert.Equal(t, want, cell(t, f, ref))
	}

	// Spacer rows stay empty
	assert.Empty(t, cell(t, f, "A2"))
	assert.Empty(t, cell(t, f, "A5"))
}

func TestWorksheetParticipantCountBlankWhenZero(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	data := buildTestData()
	data.ParticipantCount = 0

	blob, err := builder.Build(data)
	require.NoError(t, err)

	f := openWorksheet(t, blob)
	assert.Empty(t, cell(t, f, "C4"))
}

func TestWorksheetCatalogRowsAtFixedPositions(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	blob, err := builder.Build(buildTestData())
	require.NoError(t, err)

	f := openWorksheet(t, blob)

	for i, entry := range model.Catalog {
		row := rowCatalogStart + i
		assert.Equal(t, entry.Category, cell(t, f, fmt.Sprintf("A%d", row)), "row %d", row)
		assert.Equal(t, entry.Project, cell(t, f, fmt.Sprintf("B%d", row)), "row %d", row)
	}
}

func TestWorksheetBlanksZeroTotalRows(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	data := buildTestData()

	// Stored price and quantity that multiply to zero still blank the
	// whole row
	for i := range data.Expenses {
		if data.Expenses[i].Project == model.ProjectTransport {
			data.Expenses[i].Price = 500
			data.Expenses[i].Quantity = 0
			data.Expenses[i].Total = 0
			data.Expenses[i].Description = "应被隐藏"
		}
	}

	blob, err := builder.Build(data)
	require.NoError(t, err)
	f := openWorksheet(t, blob)

	// Transport is catalog row index 1
	row := rowCatalogStart + 1
	for _, col := range []string{"C", "D", "E", "F", "G"} {
		assert.Empty(t, cell(t, f, fmt.Sprintf("%s%d", col, row)), "%s%d", col, row)
	}
}

func TestWorksheetRendersNonZeroRows(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	data := buildTestData()
	for i := range data.Expenses {
		if data.Expenses[i].Project == model.ProjectVenueRental {
			data.Expenses[i].Price = 1200
			data.Expenses[i].Quantity = 2
			data.Expenses[i].Total = 2400
			data.Expenses[i].Description = "全天场地"
		}
	}

	blob, err := builder.Build(data)
	require.NoError(t, err)
	f := openWorksheet(t, blob)

	// Venue rental is catalog row index 5
	row := rowCatalogStart + 5
	assert.Equal(t, "1200", cell(t, f, fmt.Sprintf("C%d", row)))
	assert.Equal(t, "场", cell(t, f, fmt.Sprintf("D%d", row)))
	assert.Equal(t, "2", cell(t, f, fmt.Sprintf("E%d", row)))
	assert.Equal(t, "2400", cell(t, f, fmt.Sprintf("F%d", row)))
	assert.Equal(t, "全天场地", cell(t, f, fmt.Sprintf("G%d", row)))
}

func TestWorksheetMealDescriptionAlwaysBlank(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	data := buildTestData()
	for i := range data.Expenses {
		if data.Expenses[i].Project == model.ProjectMeals {
			data.Expenses[i].Price = 50
			data.Expenses[i].Quantity = 30
			data.Expenses[i].Total = 1500
			data.Expenses[i].Description = "不应出现在表格中"
		}
	}

	blob, err := builder.Build(data)
	require.NoError(t, err)
	f := openWorksheet(t, blob)

	// Meals is catalog row index 3: numeric cells render, description
	// is forced blank
	row := rowCatalogStart + 3
	assert.Equal(t, "1500", cell(t, f, fmt.Sprintf("F%d", row)))
	assert.Empty(t, cell(t, f, fmt.Sprintf("G%d", row)))
}

func TestWorksheetGrandTotal(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	data := buildTestData()
	data.Expenses[0].Total = 1000
	data.Expenses[1].Total = 234.5

	blob, err := builder.Build(data)
	require.NoError(t, err)
	f := openWorksheet(t, blob)

	assert.Equal(t, "合计", cell(t, f, fmt.Sprintf("A%d", rowGrandTotal)))
	assert.Equal(t, "1234.5", cell(t, f, fmt.Sprintf("F%d", rowGrandTotal)))
}

func TestWorksheetGrandTotalBlankWhenZero(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	blob, err := builder.Build(buildTestData())
	require.NoError(t, err)

	f := openWorksheet(t, blob)
	assert.Empty(t, cell(t, f, fmt.Sprintf("F%d", rowGrandTotal)))
}

func TestWorksheetMerges(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	blob, err := builder.Build(buildTestData())
	require.NoError(t, err)
	f := openWorksheet(t, blob)

	merges, err := f.GetMergeCells(sheetName)
	require.NoError(t, err)

	got := make(map[string]bool, len(merges))
	for _, m := range merges {
		got[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}

	want := []string{
		"A1:G1",
		"A3:B3", "C3:E3",
		"A4:B4", "C4:E4",
		"A8:A9",   // 交通费 span
		"A10:A11", // 餐费 span
		"A17:A19", // 其他费用 span
		"A20:B20", // grand total
	}
	for _, ref := range want {
		assert.True(t, got[ref], "missing merge %s", ref)
	}
	assert.Len(t, merges, len(want))
}

func TestWorksheetColumnWidths(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	blob, err := builder.Build(buildTestData())
	require.NoError(t, err)
	f := openWorksheet(t, blob)

	for i, want := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		require.NoError(t, err)
		width, err := f.GetColWidth(sheetName, col)
		require.NoError(t, err)
		assert.InDelta(t, want, width, 0.01, "column %s", col)
	}
}

// Two builds from unchanged input carry identical content: same cells,
// same merges. The zip container layout belongs to the library, so the
// check is structural, not byte-for-byte.
func TestWorksheetDeterministic(t *testing.T) {
	builder := NewWorksheetBuilder(zap.NewNop())
	data := buildTestData()
	data.Expenses[0].Total = 900

	first, err := builder.Build(data)
	require.NoError(t, err)
	second, err := builder.Build(data)
	require.NoError(t, err)

	f1 := openWorksheet(t, first)
	f2 := openWorksheet(t, second)

	rows1, err := f1.GetRows(sheetName)
	require.NoError(t, err)
	rows2, err := f2.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, rows1, rows2)

	m1, err := f1.GetMergeCells(sheetName)
	require.NoError(t, err)
	m2, err := f2.GetMergeCells(sheetName)
	require.NoError(t, err)
	assert.Equal(t, len(m1), len(m2))
}
