// levelconv converts hand-drawn ASCII maps into the level list YAML.
//
// Each data/maps/*.txt file becomes one level named after the file. Map
// rows use '#' for walls, '@' for the head start and anything else for open
// floor. Lines starting with ';' carry settings as "key: value"
// (direction, length, seed, border).
//
// Produces:
//   - data/yaml/levels.yaml
//
// Usage:
//
//	go run ./cmd/levelconv [maps-dir] [output]
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gridsnake/engine/internal/data"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML structures
// ---------------------------------------------------------------------------

type LevelEntry struct {
	Name      string    `yaml:"name"`
	Border    bool      `yaml:"border,omitempty"`
	Layout    string    `yaml:"layout"`
	Start     data.Cell `yaml:"start"`
	Direction string    `yaml:"direction"`
	Length    int       `yaml:"length"`
	Seed      int64     `yaml:"seed,omitempty"`
}

type LevelFile struct {
	Levels []LevelEntry `yaml:"levels"`
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

// convert parses one map file.
func convert(name string, src []byte) (LevelEntry, error) {
	e := LevelEntry{Name: name, Direction: "right", Length: 2}
	var rows []string
	found := false

	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.HasPrefix(line, ";") {
			if err := e.setting(strings.TrimSpace(line[1:])); err != nil {
				return e, err
			}
			continue
		}
		if line == "" && len(rows) == 0 {
			continue
		}
		if x := strings.IndexByte(line, '@'); x >= 0 {
			if found || strings.Count(line, "@") > 1 {
				return e, fmt.Errorf("more than one '@'")
			}
			found = true
			e.Start = data.Cell{X: x, Y: len(rows)}
			line = strings.Replace(line, "@", ".", 1)
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return e, err
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return e, fmt.Errorf("empty map")
	}
	if !found {
		return e, fmt.Errorf("no '@' start cell")
	}
	// pad so every row spans the full width
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	for i, r := range rows {
		rows[i] = r + strings.Repeat(".", width-len(r))
	}
	e.Layout = strings.Join(rows, "\n") + "\n"
	return e, nil
}

func (e *LevelEntry) setting(kv string) error {
	key, val, ok := strings.Cut(kv, ":")
	if !ok {
		return nil // plain comment
	}
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)
	var err error
	switch key {
	case "direction":
		e.Direction = val
	case "length":
		e.Length, err = strconv.Atoi(val)
	case "seed":
		e.Seed, err = strconv.ParseInt(val, 10, 64)
	case "border":
		e.Border, err = strconv.ParseBool(val)
	default:
		fmt.Fprintf(os.Stderr, "warning: unknown setting %q, skipping\n", key)
	}
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	mapsDir := filepath.Join("data", "maps")
	outputPath := filepath.Join("data", "yaml", "levels.yaml")
	if len(os.Args) >= 2 {
		mapsDir = os.Args[1]
	}
	if len(os.Args) >= 3 {
		outputPath = os.Args[2]
	}

	files, err := filepath.Glob(filepath.Join(mapsDir, "*.txt"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error listing %s: %v\n", mapsDir, err)
		os.Exit(1)
	}
	sort.Strings(files)

	var entries []LevelEntry
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading %s: %v\n", f, err)
			os.Exit(1)
		}
		name := strings.TrimSuffix(filepath.Base(f), ".txt")
		e, err := convert(name, src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v, skipping\n", f, err)
			continue
		}
		entries = append(entries, e)
	}

	yamlData, err := yaml.Marshal(&LevelFile{Levels: entries})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling YAML: %v\n", err)
		os.Exit(1)
	}

	// The game must be able to load what we write.
	table, err := data.ParseLevelTable(yamlData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "converted levels are invalid: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	header := "# Snake levels - converted from data/maps by levelconv\n\n"
	if err := os.WriteFile(outputPath, append([]byte(header), yamlData...), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d levels to %s\n", table.Count(), outputPath)
}
