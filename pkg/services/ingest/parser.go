package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/timesheet-atlas/pkg/models/domain"
)

// errShape rejects input that is neither a bare array of entries nor an
// object carrying a `data` array.
const errShape = "unexpected input shape: expected an array of entries or an object with a data array"

const dateLayout = "2006-01-02"

// rawRecord mirrors one exported entry. Required fields are pointers so a
// missing key can be told apart from a zero value.
type rawRecord struct {
	ID           *int64  `json:"id"`
	Date         *string `json:"date"`
	TotalMinutes *int    `json:"totalMinutes"`
	TaskName     *string `json:"taskName"`
	ProjectName  *string `json:"projectName"`
	ClientName   *string `json:"clientName"`
	Comments     string  `json:"comments"`
}

// coreFields are the keys consumed by the core; everything else on an entry
// is carried through as opaque metadata.
var coreFields = map[string]struct{}{
	"id":           {},
	"date":         {},
	"totalMinutes": {},
	"taskName":     {},
	"projectName":  {},
	"clientName":   {},
	"comments":     {},
}

// Parse validates and converts an exported records payload into source
// records. The batch is rejected wholesale on the first invalid entry.
func Parse(data []byte) ([]domain.SourceRecord, error) {
	items, err := extractEntries(data)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SourceRecord, 0, len(items))
	for i, item := range items {
		record, err := parseRecord(item, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func extractEntries(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errShape)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("invalid JSON input: %v", err)
		}
		return items, nil
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("invalid JSON input: %v", err)
		}
		inner := bytes.TrimSpace(envelope.Data)
		if len(inner) == 0 || inner[0] != '[' {
			return nil, errors.New(errShape)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("invalid JSON input: %v", err)
		}
		return items, nil
	default:
		return nil, errors.New(errShape)
	}
}

func parseRecord(item json.RawMessage, position int) (domain.SourceRecord, error) {
	var raw rawRecord
	if err := json.Unmarshal(item, &raw); err != nil {
		return domain.SourceRecord{}, fmt.Errorf("invalid JSON input: %v", err)
	}

	if missing := missingFields(raw); len(missing) > 0 {
		return domain.SourceRecord{}, fmt.Errorf(
			"Entry %d is missing required fields: %s", position, strings.Join(missing, ", "))
	}

	date, err := time.Parse(dateLayout, *raw.Date)
	if err != nil {
		return domain.SourceRecord{}, fmt.Errorf(
			"Entry %d has an invalid date %q: expected format YYYY-MM-DD", position, *raw.Date)
	}

	return domain.SourceRecord{
		ID:          *raw.ID,
		Date:        date,
		TaskName:    *raw.TaskName,
		ProjectName: *raw.ProjectName,
		ClientName:  *raw.ClientName,
		Comment:     raw.Comments,
		Minutes:     *raw.TotalMinutes,
		Metadata:    passthroughMetadata(item),
	}, nil
}

func missingFields(raw rawRecord) []string {
	var missing []string
	if raw.ID == nil {
		missing = append(missing, "id")
	}
	if raw.Date == nil || strings.TrimSpace(*raw.Date) == "" {
		missing = append(missing, "date")
	}
	if raw.TotalMinutes == nil {
		missing = append(missing, "totalMinutes")
	}
	if raw.TaskName == nil || strings.TrimSpace(*raw.TaskName) == "" {
		missing = append(missing, "taskName")
	}
	if raw.ProjectName == nil || strings.TrimSpace(*raw.ProjectName) == "" {
		missing = append(missing, "projectName")
	}
	if raw.ClientName == nil || strings.TrimSpace(*raw.ClientName) == "" {
		missing = append(missing, "clientName")
	}
	return missing
}

func passthroughMetadata(item json.RawMessage) map[string]string {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil {
		return nil
	}

	var metadata map[string]string
	for key, value := range fields {
		if _, core := coreFields[key]; core {
			continue
		}
		switch v := value.(type) {
		case string:
			if metadata == nil {
				metadata = map[string]string{}
			}
			metadata[key] = v
		case float64:
			if metadata == nil {
				metadata = map[string]string{}
			}
			metadata[key] = formatNumber(v)
		case bool:
			if metadata == nil {
				metadata = map[string]string{}
			}
			metadata[key] = fmt.Sprintf("%t", v)
		}
	}
	return metadata
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
