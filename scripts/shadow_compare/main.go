// Command shadow_compare replays the read endpoints against the legacy
// seat-booking app and this API, and reports where their payloads differ.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/api/seats", Critical: true},
	{Method: http.MethodGet, Path: "/api/bookings", Critical: true},
	{Method: http.MethodGet, Path: "/api/stats", Critical: true},
	{Method: http.MethodGet, Path: "/api/shifts", Critical: true},
	{Method: http.MethodGet, Path: "/api/students"},
}

type targetFile struct {
	Targets []target `json:"targets"`
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		ignore      string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:5003", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "Legacy app base URL")
	flag.StringVar(&targetsPath, "targets", "", "Optional JSON file with a targets list; defaults to the read endpoints")
	flag.StringVar(&ignore, "ignore", "created_at", "Comma separated JSON keys left out of the comparison")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	cmp := comparer{
		client:     &http.Client{Timeout: timeout},
		goBase:     goBase,
		legacyBase: legacyBase,
		ignore:     splitKeys(ignore),
	}

	var (
		results      []comparison
		breaking     int
		optionalDiff int
	)
	for _, t := range targets {
		res := cmp.compare(t)
		if !res.ok() {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		results = append(results, res)
	}

	printReport(results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg targetFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func splitKeys(raw string) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}
	return keys
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.ok() {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Printf("  Go: %d (%s) | Legacy: %d (%s)\n", res.GoStatus, res.DurationGo, res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		for _, d := range res.Diffs {
			fmt.Printf("  - %s\n", d)
		}
	}
}
