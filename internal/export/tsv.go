package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/photopin/photopin/internal/session"
)

// Header is the first line of a TSV export. The same column order is used
// by the XLSX export and the clipboard block.
const Header = "File Name\tAddress\tLatitude\tLongitude\tDate\tTime"

// FormatLatitude renders a latitude as unsigned decimal degrees with a
// hemisphere letter, e.g. "48.858093° N". Unknown values render as "".
func FormatLatitude(v *float64) string {
	if v == nil {
		return ""
	}
	hemisphere := "N"
	if *v < 0 {
		hemisphere = "S"
	}
	return fmt.Sprintf("%.6f° %s", math.Abs(*v), hemisphere)
}

// FormatLongitude renders a longitude as unsigned decimal degrees with a
// hemisphere letter, e.g. "122.419400° W". Unknown values render as "".
func FormatLongitude(v *float64) string {
	if v == nil {
		return ""
	}
	hemisphere := "E"
	if *v < 0 {
		hemisphere = "W"
	}
	return fmt.Sprintf("%.6f° %s", math.Abs(*v), hemisphere)
}

// ParseLatitude reverses FormatLatitude. An empty string means unknown.
func ParseLatitude(s string) (*float64, error) {
	return parseCoordinate(s, "N", "S")
}

// ParseLongitude reverses FormatLongitude. An empty string means unknown.
func ParseLongitude(s string) (*float64, error) {
	return parseCoordinate(s, "E", "W")
}

func parseCoordinate(s, positive, negative string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	value, hemisphere, found := strings.Cut(s, "° ")
	if !found {
		return nil, fmt.Errorf("malformed coordinate %q", s)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed coordinate %q: %w", s, err)
	}
	switch hemisphere {
	case positive:
	case negative:
		v = -v
	default:
		return nil, fmt.Errorf("unexpected hemisphere %q in %q", hemisphere, s)
	}
	return &v, nil
}

// FormatTSV serializes result rows as a tab-separated block with a header
// line, suitable for pasting into a spreadsheet. Unknown coordinates and
// empty dates render as empty cells.
func FormatTSV(entries []session.ProcessedImage) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, entry := range entries {
		fields := []string{
			flatten(entry.FileName),
			flatten(entry.Address),
			FormatLatitude(entry.Latitude),
			FormatLongitude(entry.Longitude),
			flatten(entry.Date),
			flatten(entry.Time),
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTSV writes the TSV export to w.
func WriteTSV(w io.Writer, entries []session.ProcessedImage) error {
	if _, err := io.WriteString(w, FormatTSV(entries)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ParseTSV reads a block produced by FormatTSV back into result rows.
// Source paths and previews are not part of the format and come back empty.
func ParseTSV(r io.Reader) ([]session.ProcessedImage, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read export: %w", err)
		}
		return nil, fmt.Errorf("export is empty")
	}
	if scanner.Text() != Header {
		return nil, fmt.Errorf("unexpected header %q", scanner.Text())
	}

	var entries []session.ProcessedImage
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 6 {
			return nil, fmt.Errorf("line %d: expected 6 fields, got %d", line, len(fields))
		}
		latitude, err := ParseLatitude(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		longitude, err := ParseLongitude(fields[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, session.ProcessedImage{
			FileName:  fields[0],
			Address:   fields[1],
			Latitude:  latitude,
			Longitude: longitude,
			Date:      fields[4],
			Time:      fields[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return entries, nil
}

// flatten replaces tabs and line breaks with spaces so a field cannot
// split its row.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
