package fs

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/herd/pkg/core"
)

// Parser turns the contents of a file into records.
type Parser interface {
	Parse(r io.Reader) ([]core.Record, error)
}

// DefaultParsers returns the standard set of parsers keyed by file extension.
func DefaultParsers(strict bool) map[string]Parser {
	return map[string]Parser{
		".json": &JSONParser{Strict: strict},
		".yaml": &YAMLParser{Strict: strict},
		".yml":  &YAMLParser{Strict: strict},
		".csv":  &CSVParser{Strict: strict},
		".md":   &MarkdownParser{Strict: strict},
	}
}

// ParserFor picks the parser registered for the extension of path.
func ParserFor(parsers map[string]Parser, path string) (Parser, bool) {
	p, ok := parsers[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// --- JSON ---

// JSONParser reads a single object or an array of objects.
type JSONParser struct {
	// Strict keeps numbers as json.Number to avoid precision loss on large identifiers.
	Strict bool
}

func (p *JSONParser) Parse(r io.Reader) ([]core.Record, error) {
	decoder := json.NewDecoder(r)
	if p.Strict {
		decoder.UseNumber()
	}
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return toRecords(payload)
}

// --- YAML ---

// YAMLParser reads a mapping or a sequence of mappings.
type YAMLParser struct {
	// Strict converts numbers to json.Number, matching JSONParser.Strict.
	Strict bool
}

func (p *YAMLParser) Parse(r io.Reader) ([]core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if payload == nil {
		return nil, nil
	}
	if p.Strict {
		payload = normalizeNumbers(payload)
	}
	return toRecords(payload)
}

// --- Markdown ---

// MarkdownParser reads YAML frontmatter as the record and stores the body under "content".
type MarkdownParser struct {
	Strict bool
}

func (p *MarkdownParser) Parse(r io.Reader) ([]core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rec := core.Record{}
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		rec["content"] = string(data)
		return []core.Record{rec}, nil
	}

	parts := bytes.SplitN(data[3:], []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}
	if err := yaml.Unmarshal(parts[0], &rec); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if rec == nil {
		rec = core.Record{}
	}

	body := strings.TrimPrefix(string(parts[1]), "\r")
	body = strings.TrimPrefix(body, "\n")
	rec["content"] = body

	if p.Strict {
		rec = normalizeNumbers(rec).(core.Record)
	}
	return []core.Record{rec}, nil
}

// --- CSV ---

// CSVParser reads a header row followed by one record per row.
type CSVParser struct {
	Strict bool
}

func (p *CSVParser) Parse(r io.Reader) ([]core.Record, error) {
	reader := csv.NewReader(r)
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var records []core.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", line, err)
		}
		rec := make(core.Record, len(headers))
		for i, h := range headers {
			rec[strings.TrimSpace(h)] = UnmarshalCSVValue(row[i], p.Strict)
		}
		records = append(records, rec)
	}
	return records, nil
}

// UnmarshalCSVValue decodes cells that look like JSON objects or arrays.
// Everything else is returned as the trimmed string.
//
// CAVEAT: a plain string that happens to be valid JSON (e.g. "[1]") is decoded.
func UnmarshalCSVValue(val string, strict bool) any {
	trimmed := strings.TrimSpace(val)
	if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
		var parsed any
		decoder := json.NewDecoder(strings.NewReader(trimmed))
		if strict {
			decoder.UseNumber()
		}
		if err := decoder.Decode(&parsed); err == nil {
			return parsed
		}
	}
	return trimmed
}

// --- Helpers ---

func toRecords(payload any) ([]core.Record, error) {
	switch v := payload.(type) {
	case map[string]any:
		return []core.Record{v}, nil
	case []any:
		records := make([]core.Record, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want an object", i, item)
			}
			records = append(records, m)
		}
		return records, nil
	}
	return nil, fmt.Errorf("top-level value is %T, want an object or a list of objects", payload)
}

// normalizeNumbers converts numeric values to json.Number, recursively.
func normalizeNumbers(val any) any {
	switch v := val.(type) {
	case core.Record:
		m := make(core.Record, len(v))
		for k, item := range v {
			m[k] = normalizeNumbers(item)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = normalizeNumbers(item)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, item := range v {
			l[i] = normalizeNumbers(item)
		}
		return l
	case int, int64, int32, uint, uint64:
		return json.Number(fmt.Sprintf("%d", v))
	case float64:
		return json.Number(fmt.Sprintf("%v", v))
	default:
		return v
	}
}
