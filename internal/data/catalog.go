package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gashpwh-sim/internal/model"
)

// ProfileEntry describes one draw profile file on disk.
type ProfileEntry struct {
	ID         string            `json:"id"`
	File       string            `json:"file"`
	Format     string            `json:"format"` // "json" or "csv"
	Events     int               `json:"events"`
	Days       int               `json:"days"`
	VolumeGal  float64           `json:"volume_gal"`
	Attributes map[string]string `json:"attributes,omitempty"` // parsed from the file name
}

// ProfileCatalog represents a collection of draw profiles
type ProfileCatalog struct {
	UpdatedAt string         `json:"updated_at"` // ISO 8601 timestamp
	Profiles  []ProfileEntry `json:"profiles"`
}

// Find returns the entry with the given id.
func (c *ProfileCatalog) Find(id string) (ProfileEntry, bool) {
	if c == nil {
		return ProfileEntry{}, false
	}
	for _, p := range c.Profiles {
		if p.ID == id {
			return p, true
		}
	}
	return ProfileEntry{}, false
}

// LoadCatalog loads a catalog from a JSON file
func LoadCatalog(filePath string) (*ProfileCatalog, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c ProfileCatalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return &c, nil
}

// SaveCatalog saves a catalog to a JSON file
func SaveCatalog(c *ProfileCatalog, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	return nil
}

// ScanProfiles loads every .json and .csv profile in dir (not recursive)
// and builds a catalog sorted by id. Files that fail to parse are returned
// in skipped alongside the error text.
func ScanProfiles(dir string, now time.Time) (*ProfileCatalog, map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read profile dir: %w", err)
	}
	cat := &ProfileCatalog{UpdatedAt: now.UTC().Format(time.RFC3339)}
	skipped := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".json" && ext != ".csv" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		p, err := LoadDrawProfile(path)
		if err != nil {
			skipped[e.Name()] = err.Error()
			continue
		}
		cat.Profiles = append(cat.Profiles, entryFor(path, ext, p))
	}
	sort.Slice(cat.Profiles, func(i, j int) bool { return cat.Profiles[i].ID < cat.Profiles[j].ID })
	return cat, skipped, nil
}

func entryFor(path, ext string, p *model.DrawProfile) ProfileEntry {
	id := ProfileID(path)
	span := p.HorizonMinutes
	for _, ev := range p.Events {
		if ev.EndTime() > span {
			span = ev.EndTime()
		}
	}
	days := int(span / minutesPerDay)
	if float64(days*minutesPerDay) < span {
		days++
	}
	e := ProfileEntry{
		ID:        id,
		File:      filepath.Base(path),
		Format:    strings.TrimPrefix(ext, "."),
		Events:    len(p.Events),
		Days:      days,
		VolumeGal: model.TotalVolume(p.Events),
	}
	if attrs := ParseProfileName(id); len(attrs) > 0 {
		e.Attributes = attrs
	}
	return e
}

// GetDefaultCatalogPath returns the default path for the catalog file
func GetDefaultCatalogPath() string {
	if path := os.Getenv("HPWH_CATALOG_PATH"); path != "" {
		return path
	}
	return "./data/profiles.json"
}
