package analysis

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

var summaryHeader = []string{
	"profile",
	"steps",
	"horizon_min",
	"draw_volume_gal",
	"electric_kwh",
	"gas_therms",
	"nox_g",
	"co2_gas_lb",
	"co2_electricity_lb",
	"co2_total_lb",
	"heat_pump_min",
	"backup_min",
	"heat_pump_starts",
	"backup_starts",
	"mean_active_cop",
	"min_temperature_f",
	"final_temperature_f",
	"minutes_below_activation",
}

func WriteSummariesCSV(path string, summaries []Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSummaries(f, summaries)
}

// WriteSummaries writes one CSV row per run.
func WriteSummaries(out io.Writer, summaries []Summary) error {
	w := csv.NewWriter(out)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			s.Name,
			strconv.Itoa(s.Steps),
			fmtFloat(s.HorizonMinutes),
			fmtFloat(s.DrawVolume),
			fmtFloat(s.ElectricKWh),
			fmtFloat(s.GasTherms),
			fmtFloat(s.NOxGrams),
			fmtFloat(s.CO2GasLb),
			fmtFloat(s.CO2ElectricityLb),
			fmtFloat(s.CO2TotalLb),
			fmtFloat(s.HeatPumpMinutes),
			fmtFloat(s.BackupMinutes),
			strconv.Itoa(s.HeatPumpStarts),
			strconv.Itoa(s.BackupStarts),
			fmtFloat(s.MeanActiveCOP),
			fmtFloat(s.MinTemperature),
			fmtFloat(s.FinalTemperature),
			fmtFloat(s.MinutesBelowActivation),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Table is a two-way grid of one metric, e.g. annual therms by climate zone
// (rows) and conditioned floor area (columns).
type Table struct {
	RowKey, ColKey string
	Rows, Cols     []string
	Cells          map[string]map[string]float64
}

// Pivot lays out one value per run on the grid spanned by two of the run's
// attributes. Runs missing either attribute are left out. Labels sort
// numerically when they parse as numbers.
func Pivot(runs []Summary, attrs map[string]map[string]string, rowKey, colKey string, value func(Summary) float64) *Table {
	t := &Table{RowKey: rowKey, ColKey: colKey, Cells: map[string]map[string]float64{}}
	seenCol := map[string]bool{}
	for _, s := range runs {
		a := attrs[s.Name]
		r, okR := a[rowKey]
		c, okC := a[colKey]
		if !okR || !okC {
			continue
		}
		if t.Cells[r] == nil {
			t.Cells[r] = map[string]float64{}
			t.Rows = append(t.Rows, r)
		}
		if !seenCol[c] {
			seenCol[c] = true
			t.Cols = append(t.Cols, c)
		}
		t.Cells[r][c] = value(s)
	}
	sortLabels(t.Rows)
	sortLabels(t.Cols)
	return t
}

// WriteCSV writes the grid with row labels in the first column. Empty
// cells are left blank.
func (t *Table) WriteCSV(out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write(append([]string{t.RowKey + `\` + t.ColKey}, t.Cols...)); err != nil {
		return err
	}
	for _, r := range t.Rows {
		row := []string{r}
		for _, c := range t.Cols {
			v, ok := t.Cells[r][c]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, fmtFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func sortLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		a, errA := strconv.ParseFloat(labels[i], 64)
		b, errB := strconv.ParseFloat(labels[j], 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return labels[i] < labels[j]
	})
}

func fmtFloat(x float64) string {
	if x == 0 {
		x = 0
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
