package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gashpwh-sim/internal/model"
)

// CBECC-Res draw profile columns.
const (
	colDayOfYear = "Day of Year (Day)"
	colStartHour = "Start time (hr)"
	colDuration  = "Duration (min)"
	colFlowRate  = "Hot Water Flow Rate (gpm)"
	colMains     = "Mains Temperature (deg F)"
)

const minutesPerDay = 24 * 60

func LoadDrawProfileCSV(path string) (*model.DrawProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ReadDrawProfileCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Name = ProfileID(path)
	return p, nil
}

// ReadDrawProfileCSV converts a CBECC-Res event list into a DrawProfile.
// Start times are measured from midnight of the earliest day, the horizon
// covers every day from the earliest to the latest, and StartHourOfYear
// places that earliest day in the calendar year.
func ReadDrawProfileCSV(r io.Reader) (*model.DrawProfile, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{colDayOfYear, colStartHour, colDuration, colFlowRate} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	mainsCol, hasMains := idx[colMains]

	type row struct {
		day                  int
		startHour, dur, flow float64
		mains                *float64
	}
	var rows []row
	firstDay, lastDay := 0, 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var rw row
		day, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[colDayOfYear]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: day of year: %w", line, err)
		}
		rw.day = int(day)
		if rw.startHour, err = parseField(rec, idx[colStartHour]); err != nil {
			return nil, fmt.Errorf("line %d: start time: %w", line, err)
		}
		if rw.dur, err = parseField(rec, idx[colDuration]); err != nil {
			return nil, fmt.Errorf("line %d: duration: %w", line, err)
		}
		if rw.flow, err = parseField(rec, idx[colFlowRate]); err != nil {
			return nil, fmt.Errorf("line %d: flow rate: %w", line, err)
		}
		if hasMains {
			v, err := parseField(rec, mainsCol)
			if err != nil {
				return nil, fmt.Errorf("line %d: mains temperature: %w", line, err)
			}
			rw.mains = model.Float64(v)
		}
		if len(rows) == 0 || rw.day < firstDay {
			firstDay = rw.day
		}
		if len(rows) == 0 || rw.day > lastDay {
			lastDay = rw.day
		}
		rows = append(rows, rw)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no draw events")
	}
	if firstDay < 1 {
		return nil, fmt.Errorf("day of year must be >= 1, got %d", firstDay)
	}

	p := &model.DrawProfile{
		StartHourOfYear: (firstDay - 1) * 24,
		HorizonMinutes:  float64((lastDay-firstDay+1)*minutesPerDay),
		Events:          make([]model.DrawEvent, 0, len(rows)),
	}
	for _, rw := range rows {
		p.Events = append(p.Events, model.DrawEvent{
			StartTime:        rw.startHour*60 + float64((rw.day-firstDay)*minutesPerDay),
			Duration:         rw.dur,
			FlowRate:         rw.flow,
			InletTemperature: rw.mains,
		})
	}
	return p, nil
}

func parseField(rec []string, i int) (float64, error) {
	if i >= len(rec) {
		return 0, fmt.Errorf("missing field %d", i)
	}
	return strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
}
