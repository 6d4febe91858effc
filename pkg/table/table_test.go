package table

import (
	"testing"

	"github.com/panbanda/benford/pkg/benford"
	"github.com/panbanda/benford/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.FileRecord {
	return []models.FileRecord{
		{Path: "src/b.go", Language: "Go", CodeLines: 30, DocLines: 4, EmptyLines: 2, AvgComplexity: 2.5, SumComplexity: 10, HasComplexity: true},
		{Path: "src/a.go", Language: "Go", CodeLines: 3},
		{Path: "lib/x.py", Language: "Python", CodeLines: 120, DocLines: 0, EmptyLines: 9, StringLines: 1},
		{Path: "NOTES", Language: "", CodeLines: 7, EmptyLines: 1},
	}
}

func TestNew_SortsRowsByPath(t *testing.T) {
	tbl := New(sampleRecords())

	require.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"NOTES", "lib/x.py", "src/a.go", "src/b.go"}, tbl.Paths())
	assert.Equal(t, []string{Unclassified, "Python", "Go", "Go"}, tbl.LanguageColumn())
	assert.Equal(t, []float64{7, 120, 3, 30}, tbl.Column(models.MetricCode))
	assert.Equal(t, []float64{0, 0, 0, 2.5}, tbl.Column(models.MetricAvgComplexity))
}

func TestNew_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	_ = New(records)
	assert.Equal(t, "src/b.go", records[0].Path)
}

func TestNew_OrderIndependent(t *testing.T) {
	records := sampleRecords()
	reversed := make([]models.FileRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	assert.Equal(t, New(records).Records(), New(reversed).Records())
}

func TestAddDigitColumns(t *testing.T) {
	tbl := New(sampleRecords())
	tbl.AddDigitColumns()

	assert.Equal(t, []benford.Digit{7, 1, 3, 3}, tbl.DigitColumn(models.MetricCode))
	assert.Equal(t, []benford.Digit{benford.NoDigit, benford.NoDigit, benford.NoDigit, 4}, tbl.DigitColumn(models.MetricDoc))
	assert.Equal(t, []benford.Digit{benford.NoDigit, benford.NoDigit, benford.NoDigit, 2}, tbl.DigitColumn(models.MetricAvgComplexity))
	assert.Equal(t, []benford.Digit{benford.NoDigit, benford.NoDigit, benford.NoDigit, 1}, tbl.DigitColumn(models.MetricSumComplexity))

	for _, m := range models.AllMetrics() {
		assert.Len(t, tbl.DigitColumn(m), tbl.Len(), "metric %s", m)
	}
}

func TestLanguages(t *testing.T) {
	tbl := New(sampleRecords())
	assert.Equal(t, []string{"Go", "Python", Unclassified}, tbl.Languages())
}

func TestSelect_CarriesDigits(t *testing.T) {
	tbl := New(sampleRecords())
	tbl.AddDigitColumns()

	sub := tbl.Select([]int{2, 3})
	assert.Equal(t, []string{"src/a.go", "src/b.go"}, sub.Paths())
	assert.Equal(t, []benford.Digit{3, 3}, sub.DigitColumn(models.MetricCode))
}

func TestPartition_Completeness(t *testing.T) {
	tbl := New(sampleRecords())
	parts := Partition(tbl, nil)

	require.Len(t, parts, 3)
	total := 0
	for _, p := range parts {
		total += p.Table.Len()
		for _, lang := range p.Table.LanguageColumn() {
			assert.Equal(t, p.Language, lang)
		}
	}
	assert.Equal(t, tbl.Len(), total)
	assert.Equal(t, Unclassified, parts[2].Language)
	assert.Equal(t, 1, parts[2].Table.Len())
}

func TestPartition_AllowList(t *testing.T) {
	tbl := New(sampleRecords())

	tests := []struct {
		name  string
		allow []string
		want  []string
	}{
		{"no filter", nil, []string{"Go", "Python", Unclassified}},
		{"single", []string{"Go"}, []string{"Go"}},
		{"case insensitive", []string{"python"}, []string{"Python"}},
		{"unclassified by name", []string{"unclassified", "Go"}, []string{"Go", Unclassified}},
		{"matches nothing", []string{"Haskell"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range Partition(tbl, tt.allow) {
				got = append(got, p.Language)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	// Filtered languages stay in the full table.
	assert.Equal(t, 4, tbl.Len())
}

func TestPartition_EmptyTable(t *testing.T) {
	assert.Empty(t, Partition(New(nil), nil))
}
