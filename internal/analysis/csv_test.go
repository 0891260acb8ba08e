package analysis

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummaries(t *testing.T) {
	sums := []Summary{
		{Name: "a", Steps: 12, GasTherms: 0.25, ElectricKWh: 1.5, HeatPumpStarts: 2},
		{Name: "b", Steps: 12, MinTemperature: -0.0},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummaries(&buf, sums))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, summaryHeader, rows[0])
	assert.Equal(t, "a", rows[1][0])
	assert.Equal(t, "1.500000", rows[1][4])
	assert.Equal(t, "0.250000", rows[1][5])
	assert.Equal(t, "2", rows[1][12])
	assert.Equal(t, "0.000000", rows[2][15])

	path := filepath.Join(t.TempDir(), "nested", "summary.csv")
	require.NoError(t, WriteSummariesCSV(path, sums))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "profile,steps,")
}

func TestPivot(t *testing.T) {
	runs := []Summary{
		{Name: "p1", GasTherms: 1},
		{Name: "p2", GasTherms: 2},
		{Name: "p3", GasTherms: 3},
		{Name: "plain", GasTherms: 9},
	}
	attrs := map[string]map[string]string{
		"p1": {"CZ": "12", "CFA": "800"},
		"p2": {"CZ": "3", "CFA": "800"},
		"p3": {"CZ": "12", "CFA": "1600"},
	}
	tbl := Pivot(runs, attrs, "CZ", "CFA", func(s Summary) float64 { return s.GasTherms })

	assert.Equal(t, []string{"3", "12"}, tbl.Rows, "numeric labels sort numerically")
	assert.Equal(t, []string{"800", "1600"}, tbl.Cols)
	assert.Equal(t, 3.0, tbl.Cells["12"]["1600"])

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	assert.Equal(t, "CZ\\CFA,800,1600\n3,2.000000,\n12,1.000000,3.000000\n", buf.String())
}

func TestSortLabels(t *testing.T) {
	labels := []string{"b", "10", "a", "2"}
	sortLabels(labels)
	assert.Equal(t, []string{"2", "10", "a", "b"}, labels)
}
