package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"gashpwh-sim/internal/data"
)

func main() {
	var (
		profileDir = flag.String("dir", "examples/profiles", "Directory of draw profiles (.json or CBECC-Res .csv)")
		outputPath = flag.String("output", "", "Output file path (default: ./data/profiles.json)")
	)
	flag.Parse()

	if *outputPath == "" {
		*outputPath = data.GetDefaultCatalogPath()
	}

	fmt.Printf("Indexing profiles in %s\n", *profileDir)

	cat, skipped, err := data.ScanProfiles(*profileDir, time.Now())
	if err != nil {
		log.Fatalf("Failed to scan profiles: %v", err)
	}

	names := make([]string, 0, len(skipped))
	for name := range skipped {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  skipped %s: %s\n", name, skipped[name])
	}
	for _, p := range cat.Profiles {
		fmt.Printf("  %-40s %4d events %3d days %9.1f gal\n", p.ID, p.Events, p.Days, p.VolumeGal)
	}

	if err := data.SaveCatalog(cat, *outputPath); err != nil {
		log.Fatalf("Failed to save catalog: %v", err)
	}

	fmt.Printf("Saved %d profiles to %s\n", len(cat.Profiles), *outputPath)
}
