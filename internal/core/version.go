package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgindex/internal/types"
)

// ParseVersion reads a version of the form "1.2.3" optionally followed by
// "-tag" suffixes made of letters and digits. Leading zeros are accepted.
func ParseVersion(raw string) (types.Version, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return types.Version{}, invalidVersion(raw)
	}
	segments := strings.Split(value, "-")
	numbers := strings.Split(segments[0], ".")
	branch := make([]int, 0, len(numbers))
	for _, part := range numbers {
		if part == "" || !isDigits(part) {
			return types.Version{}, invalidVersion(raw)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return types.Version{}, invalidVersion(raw)
		}
		branch = append(branch, n)
	}
	var tags []string
	for _, tag := range segments[1:] {
		if tag == "" || !isAlphaNum(tag) {
			return types.Version{}, invalidVersion(raw)
		}
		tags = append(tags, tag)
	}
	return types.Version{Branch: branch, Tags: tags}, nil
}

// MustParseVersion is ParseVersion for literals known to be valid.
func MustParseVersion(raw string) types.Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func invalidVersion(raw string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version: %q", raw))
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlphaNum(value string) bool {
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
