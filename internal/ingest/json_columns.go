package ingest

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/rxtech-lab/argo-pipeline/pkg/errors"
)

// readColumnOrientedJSON reads a single JSON object that maps every column to an
// object of row label to value, e.g. {"Close": {"0": 1.5, "1": 1.7}}. Rows follow
// the order in which labels first appear; a label missing from a column is null.
// ok is false when the file holds another layout (record array or NDJSON).
func readColumnOrientedJSON(path string) (columns []string, raw [][]any, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read %s", path)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, nil, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	if _, err := dec.Token(); err != nil {
		return nil, nil, false, nil
	}

	labels := make([]string, 0)
	labelIndex := make(map[string]int)
	cells := make([]map[string]any, 0)

	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, nil, false, nil
		}

		column, isString := key.(string)
		if !isString {
			return nil, nil, false, nil
		}

		open, err := dec.Token()
		if err != nil {
			return nil, nil, false, nil
		}

		if delim, isDelim := open.(json.Delim); !isDelim || delim != '{' {
			return nil, nil, false, nil
		}

		values := make(map[string]any)

		for dec.More() {
			labelToken, err := dec.Token()
			if err != nil {
				return nil, nil, false, errors.Wrapf(errors.ErrCodeReadFailed, err, "malformed JSON in column %s", column)
			}

			label, _ := labelToken.(string)

			var value any
			if err := dec.Decode(&value); err != nil {
				return nil, nil, false, errors.Wrapf(errors.ErrCodeReadFailed, err, "malformed JSON in column %s", column)
			}

			if _, seen := labelIndex[label]; !seen {
				labelIndex[label] = len(labels)
				labels = append(labels, label)
			}

			values[label] = value
		}

		if _, err := dec.Token(); err != nil {
			return nil, nil, false, errors.Wrapf(errors.ErrCodeReadFailed, err, "malformed JSON in column %s", column)
		}

		columns = append(columns, column)
		cells = append(cells, values)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, false, errors.Wrapf(errors.ErrCodeReadFailed, err, "malformed JSON in %s", path)
	}

	// a second top-level value means NDJSON whose records happen to hold objects
	if dec.More() {
		return nil, nil, false, nil
	}

	raw = make([][]any, len(labels))
	for i, label := range labels {
		row := make([]any, len(columns))
		for j := range columns {
			row[j] = cells[j][label]
		}

		raw[i] = row
	}

	return columns, raw, true, nil
}
