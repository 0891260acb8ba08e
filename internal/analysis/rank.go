package analysis

import "sort"

type RankedRun struct {
	Rank int `json:"rank"`
	Summary
}

// RankByGasUse sorts runs ascending by gas consumption; ties go by name.
func RankByGasUse(byProfile map[string]Summary) []RankedRun {
	out := make([]RankedRun, 0, len(byProfile))
	for name, s := range byProfile {
		s.Name = name
		out = append(out, RankedRun{Summary: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GasTherms != out[j].GasTherms {
			return out[i].GasTherms < out[j].GasTherms
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
