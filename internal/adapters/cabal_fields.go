package adapters

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sectionKeywords start an indented block in a .cabal file. Their bodies
// are not interpreted.
var sectionKeywords = map[string]struct{}{
	"library":           {},
	"executable":        {},
	"test-suite":        {},
	"benchmark":         {},
	"flag":              {},
	"source-repository": {},
	"foreign-library":   {},
	"common":            {},
	"custom-setup":      {},
}

type fieldLine struct {
	number int
	text   string
}

// scanFields reads top-level "name: value" fields from field-layout text
// such as .cabal files and ghc-pkg dump records. Keys are lowercased;
// indented continuation lines are joined to the previous field with a
// newline. Section bodies are skipped. A leading byte order mark is
// dropped and invalid UTF-8 sequences are replaced with U+FFFD.
func scanFields(content []byte) (map[string]string, error) {
	text := strings.ToValidUTF8(string(bytes.TrimPrefix(content, utf8BOM)), "\uFFFD")
	fields := map[string]string{}
	var current string
	inSection := false
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for number := 1; scanner.Scan(); number++ {
		line := fieldLine{number: number, text: strings.TrimRight(scanner.Text(), " \t\r")}
		trimmed := strings.TrimSpace(line.text)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		indented := line.text[0] == ' ' || line.text[0] == '\t'
		if indented {
			if inSection {
				continue
			}
			if current == "" {
				return nil, fmt.Errorf("line %d: continuation without a field", line.number)
			}
			fields[current] = joinFieldValue(fields[current], trimmed)
			continue
		}
		key, value, ok := splitField(trimmed)
		if ok {
			current = key
			inSection = false
			fields[key] = value
			continue
		}
		if isSectionHeader(trimmed) {
			current = ""
			inSection = true
			continue
		}
		return nil, fmt.Errorf("line %d: expected a field or section, got %q", line.number, trimmed)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

func splitField(line string) (string, string, bool) {
	colon := strings.Index(line, ":")
	if colon <= 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:colon])
	if !isFieldName(key) {
		return "", "", false
	}
	return strings.ToLower(key), strings.TrimSpace(line[colon+1:]), true
}

func isFieldName(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r == '_' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

func isSectionHeader(line string) bool {
	keyword := strings.ToLower(strings.Fields(line)[0])
	_, ok := sectionKeywords[keyword]
	return ok
}

func joinFieldValue(existing string, next string) string {
	if existing == "" {
		return next
	}
	return existing + "\n" + next
}
