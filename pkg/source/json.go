package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/airlift-dev/airlift/pkg/models"
)

// Base export wire format. Field values arrive untyped; DecodeFieldValue maps
// them onto the tagged variant the engine works with.
type exportDocument struct {
	Tables []exportTable `json:"tables"`
}

type exportTable struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Fields  []models.Field `json:"fields"`
	Records []exportRecord `json:"records"`
}

type exportRecord struct {
	ID     string                     `json:"id"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// LoadBaseExport reads a base export file and materializes its tables.
func LoadBaseExport(path string) ([]*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open base export: %w", err)
	}
	defer f.Close()
	return DecodeBaseExport(f)
}

// DecodeBaseExport decodes a base export document from r.
func DecodeBaseExport(r io.Reader) ([]*models.Table, error) {
	var doc exportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode base export: %w", err)
	}

	tables := make([]*models.Table, 0, len(doc.Tables))
	for _, et := range doc.Tables {
		t := &models.Table{
			ID:     et.ID,
			Name:   et.Name,
			Fields: et.Fields,
		}
		for _, er := range et.Records {
			rec := models.Record{
				ID:     er.ID,
				Fields: make(map[string]models.FieldValue, len(er.Fields)),
			}
			for name, raw := range er.Fields {
				rec.Fields[name] = DecodeFieldValue(raw)
			}
			t.Records = append(t.Records, rec)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// DecodeFieldValue converts a raw JSON value into the tagged variant. Exports
// are self-reported and noisy: booleans become scalars, arrays of anything are
// coerced to reference lists of strings, and shapes that fit nothing are
// treated as null so the collector can count them as missing.
func DecodeFieldValue(raw json.RawMessage) models.FieldValue {
	if len(raw) == 0 || string(raw) == "null" {
		return models.NullValue()
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return models.ScalarValue(strVal)
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return models.NumericValue(numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return models.ScalarValue(fmt.Sprintf("%t", boolVal))
	}

	var listVal []json.RawMessage
	if err := json.Unmarshal(raw, &listVal); err == nil {
		refs := make([]string, 0, len(listVal))
		for _, item := range listVal {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				refs = append(refs, s)
				continue
			}
			var n float64
			if err := json.Unmarshal(item, &n); err == nil {
				refs = append(refs, fmt.Sprintf("%g", n))
			}
		}
		return models.ReferenceListValue(refs)
	}

	return models.NullValue()
}
