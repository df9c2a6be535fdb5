// Package reconcile compares two independently produced runs down to
// the individual fill and renders a structured verdict.
package reconcile

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// LoadNDJSON is the permissive audit-log loader. A missing file yields
// an empty slice. Each line is first decoded as a single object; on
// failure it is re-scanned as a sequence of concatenated JSON objects.
// Irrecoverable fragments are skipped so the rest of the log survives.
func LoadNDJSON(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var items []map[string]any
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err == nil {
			items = append(items, obj)
			continue
		}

		dec := json.NewDecoder(strings.NewReader(line))
		for {
			var obj map[string]any
			if err := dec.Decode(&obj); err != nil {
				break
			}
			items = append(items, obj)
		}
	}
	return items, sc.Err()
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func num(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}
