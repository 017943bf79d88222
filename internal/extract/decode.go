package extract

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// DecodeRecords turns a raw oracle response into exactly want records.
// Markdown fences are stripped, the payload must be a JSON array, and each
// element is validated independently. Anything invalid, missing, or extra
// degrades to placeholders so the positional contract always holds.
func DecodeRecords(response string, want int) []Record {
	response = stripFences(response)

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(response), &elements); err != nil {
		slog.Warn("Oracle response is not a JSON array, substituting placeholders", "error", err)
		return Placeholders(want)
	}

	if len(elements) != want {
		slog.Warn("Oracle returned wrong record count", "expected", want, "got", len(elements))
	}

	records := make([]Record, want)
	for i := range records {
		if i >= len(elements) {
			records[i] = Placeholder()
			continue
		}
		rec, err := decodeRecord(elements[i])
		if err != nil {
			slog.Warn("Discarding invalid oracle record", "index", i, "error", err)
			records[i] = Placeholder()
			continue
		}
		records[i] = rec
	}

	return records
}

func decodeRecord(raw json.RawMessage) (Record, error) {
	if err := validateRecord(raw); err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}

	// Malformed timestamps are dropped rather than failing a record that
	// still carries usable coordinates.
	if !dateRe.MatchString(rec.Date) {
		rec.Date = ""
	}
	if !timeRe.MatchString(rec.Time) {
		rec.Time = ""
	}

	return rec, nil
}

// stripFences removes a markdown code fence wrapped around a JSON payload.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
