package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gashpwh-sim/internal/model"
)

func LoadDrawProfileJSON(path string) (*model.DrawProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p model.DrawProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse draw profile %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = ProfileID(path)
	}
	return &p, nil
}

// LoadDrawProfile picks a loader from the file extension: .json for the
// native shape, .csv for CBECC-Res event lists.
func LoadDrawProfile(path string) (*model.DrawProfile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadDrawProfileJSON(path)
	case ".csv":
		return LoadDrawProfileCSV(path)
	default:
		return nil, fmt.Errorf("unsupported draw profile format: %s", path)
	}
}

// ProfileID is the file name without directory or extension.
func ProfileID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseProfileName splits CBECC-style names such as
// "Bldg=Single_CZ=12_Wat=Hot_Prof=3_SDLM=Yes_CFA=800" into key/value pairs.
// Parts without '=' are ignored.
func ParseProfileName(name string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(name, "_") {
		k, v, ok := strings.Cut(part, "=")
		if ok && k != "" {
			out[k] = v
		}
	}
	return out
}
