package core

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Preference is a soft version constraint for one package.
type Preference struct {
	Name  string
	Range VersionRange
}

// MergePreferences intersects the ranges given for each name across all
// repositories. Names that never appear have no entry.
func MergePreferences(lists [][]Preference) map[string]VersionRange {
	merged := map[string]VersionRange{}
	for _, list := range lists {
		for _, pref := range list {
			if existing, ok := merged[pref.Name]; ok {
				merged[pref.Name] = IntersectRanges(existing, pref.Range)
				continue
			}
			merged[pref.Name] = pref.Range
		}
	}
	return merged
}

// ParsePreferences reads a preferred-versions file: one "name range" per
// line, "--" starts a comment line. Lines that do not parse are skipped.
func ParsePreferences(ctx context.Context, reader io.Reader) []Preference {
	var prefs []Preference
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		pref, ok := parsePreferenceLine(line)
		if !ok {
			log.Ctx(ctx).Debug().Str("line", line).Msg("skipping unparsable preference")
			continue
		}
		prefs = append(prefs, pref)
	}
	if err := scanner.Err(); err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("preference file truncated")
	}
	return prefs
}

func parsePreferenceLine(line string) (Preference, bool) {
	end := strings.IndexFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || strings.ContainsRune("<>=(^", r)
	})
	name := line
	rest := ""
	if end >= 0 {
		name = line[:end]
		rest = line[end:]
	}
	if !isPackageName(name) {
		return Preference{}, false
	}
	r, err := ParseVersionRange(rest)
	if err != nil {
		return Preference{}, false
	}
	return Preference{Name: name, Range: r}, true
}

func isPackageName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return false
	}
	for _, r := range name {
		switch {
		case r == '-', r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

// PreferenceNames returns the keys of a merged preference map sorted.
func PreferenceNames(prefs map[string]VersionRange) []string {
	names := make([]string, 0, len(prefs))
	for name := range prefs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
