package resourcepool

import (
	"bufio"
	"strings"
)

// sectionOrder scans a TOML document for top-level `[section]` headers and
// returns their names in document order. go-toml/v2 happily decodes the
// document into a map, which is exactly what we want for the field values
// but loses the ordering pools must be processed in; this recovers it with
// a plain text scan rather than a second, heavier, order-preserving parse.
func sectionOrder(text string) ([]string, error) {
	var order []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 2 || line[0] != '[' {
			continue
		}
		// Skip table-array headers `[[...]]`, which this document format
		// never uses. Dotted headers are returned as written; ParseDefinitions
		// finds no top-level section under such a name and passes over it.
		if line[1] == '[' {
			continue
		}
		end := strings.IndexByte(line, ']')
		if end < 0 {
			continue
		}
		name := strings.TrimSpace(line[1:end])
		name = strings.Trim(name, `"'`)
		if name != "" {
			order = append(order, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return order, nil
}
