// Package ptab reads and writes the .ptab power table text format:
//
//	# METADATA:HMax=32029
//	Cadence/Power,100W,150W,200W
//	60RPM,50,70,90
//	90RPM,40,,80
//
// Cell values on disk are divided by the storage multiplier; in memory they
// are multiplied by it.
package ptab

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

const (
	metadataPrefix = "# METADATA:"
	hMaxKey        = "HMax"
	headerLabel    = "Cadence/Power"
	powerSuffix    = "W"
	cadenceSuffix  = "RPM"
)

// Parse reads a table from text. cfg supplies the ceiling used when the file
// carries no usable HMax and the storage multiplier applied to every cell.
func Parse(text string, cfg powertable.Config) (*powertable.Table, error) {
	return Read(strings.NewReader(text), cfg)
}

// Read parses a table from r. See Parse.
func Read(r io.Reader, cfg powertable.Config) (*powertable.Table, error) {
	multiplier := multiplierOf(cfg)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	var powers []int
	headerFound := false
	var table *powertable.Table

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !headerFound {
			if strings.HasPrefix(line, "#") {
				if hMax, ok := parseMetadata(line); ok {
					cfg.MaxResistance = hMax
				}
				continue
			}
			var err error
			if powers, err = parseHeader(line, lineNo); err != nil {
				return nil, err
			}
			headerFound = true
			table = powertable.NewTable(cfg)
			continue
		}

		parseRow(table, line, powers, multiplier)
	}
	if err := scanner.Err(); err != nil {
		return nil, &powertable.ParseError{Line: lineNo, Msg: "read failed", Err: err}
	}
	if !headerFound {
		return nil, &powertable.ParseError{Msg: "missing " + headerLabel + " header"}
	}
	return table, nil
}

// parseMetadata extracts HMax from a "# METADATA:HMax=<n>" line
func parseMetadata(line string) (int, bool) {
	rest, ok := strings.CutPrefix(line, metadataPrefix)
	if !ok {
		return 0, false
	}
	for _, field := range strings.Split(rest, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(field), "=")
		if !found || key != hMaxKey {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func parseHeader(line string, lineNo int) ([]int, error) {
	cells := strings.Split(line, ",")
	if strings.TrimSpace(cells[0]) != headerLabel {
		return nil, &powertable.ParseError{Line: lineNo, Msg: fmt.Sprintf("expected %s header, got %q", headerLabel, cells[0])}
	}
	powers := make([]int, 0, len(cells)-1)
	for _, cell := range cells[1:] {
		cell = strings.TrimSpace(cell)
		digits, ok := strings.CutSuffix(cell, powerSuffix)
		if !ok {
			return nil, &powertable.ParseError{Line: lineNo, Msg: fmt.Sprintf("power column %q lacks %s suffix", cell, powerSuffix)}
		}
		p, err := strconv.Atoi(digits)
		if err != nil {
			return nil, &powertable.ParseError{Line: lineNo, Msg: fmt.Sprintf("bad power column %q", cell), Err: err}
		}
		if p <= 0 {
			return nil, &powertable.ParseError{Line: lineNo, Msg: fmt.Sprintf("power column %q must be positive", cell)}
		}
		powers = append(powers, p)
	}
	return powers, nil
}

// parseRow loads one "<cadence>RPM,<v1>,..." row. Rows with a non-numeric
// cadence and cells that are not integers are skipped.
func parseRow(table *powertable.Table, line string, powers []int, multiplier int) {
	cells := strings.Split(line, ",")
	cadence, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(cells[0]), cadenceSuffix))
	if err != nil || cadence <= 0 {
		return
	}
	for j := 1; j < len(cells) && j <= len(powers); j++ {
		cell := strings.TrimSpace(cells[j])
		if cell == "" {
			continue
		}
		v, err := strconv.Atoi(cell)
		if err != nil {
			continue
		}
		table.Set(cadence, powers[j-1], v*multiplier)
	}
}

// Serialize renders a table in the on-disk format: metadata, a header of
// every power in use ascending, then one row per cadence ascending.
func Serialize(t *powertable.Table) string {
	var sb strings.Builder
	// strings.Builder never returns a write error
	_ = Write(&sb, t)
	return sb.String()
}

// Write renders a table to w. See Serialize.
func Write(w io.Writer, t *powertable.Table) error {
	bw := bufio.NewWriter(w)
	multiplier := multiplierOf(t.Config)
	powers := t.AllPowersUsed()

	fmt.Fprintf(bw, "%s%s=%d\n", metadataPrefix, hMaxKey, t.Config.MaxResistance)

	bw.WriteString(headerLabel)
	for _, p := range powers {
		fmt.Fprintf(bw, ",%d%s", p, powerSuffix)
	}
	bw.WriteByte('\n')

	for _, cadence := range t.Cadences() {
		fmt.Fprintf(bw, "%d%s", cadence, cadenceSuffix)
		for _, p := range powers {
			bw.WriteByte(',')
			if r, ok := t.Get(cadence, p); ok {
				bw.WriteString(strconv.Itoa(toStored(r, multiplier)))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func toStored(r, multiplier int) int {
	return int(math.Floor(float64(r)/float64(multiplier) + 0.5))
}

func multiplierOf(cfg powertable.Config) int {
	if cfg.StorageMultiplier <= 0 {
		return 1
	}
	return cfg.StorageMultiplier
}
