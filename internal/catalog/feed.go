package catalog

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// parseJSONRows decodes a SheetDB-style JSON array of row objects into
// column-name keyed string maps. SheetDB serializes every cell as a string,
// but numbers are tolerated too.
func parseJSONRows(body []byte) ([]map[string]string, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "decode feed json")
	}
	rows := make([]map[string]string, 0, len(raw))
	for _, rec := range raw {
		row := make(map[string]string, len(rec))
		for k, v := range rec {
			row[k] = cast.ToString(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseCSVRows parses a published CSV export. The first record is the header;
// following records are zipped against it positionally. Quoted fields may
// contain delimiters and embedded newlines. Rows shorter than the header are
// padded with empty fields, and a row whose name or price cell is blank after
// trimming is dropped. A malformed record skips that record only.
func parseCSVRows(body []byte) ([]map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read feed csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Warn("catalog: skipping malformed csv record", zap.Error(err))
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		if strings.TrimSpace(row[colName]) == "" || strings.TrimSpace(row[colPrice]) == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
