package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgindex/internal/types"
)

type rangeKind int

const (
	rangeAny rangeKind = iota
	rangeNone
	rangeThis
	rangeLater
	rangeEarlier
	rangeOrLater
	rangeOrEarlier
	rangeWildcard
	rangeIntersect
	rangeUnion
	// rangeMajor only appears while parsing; it expands to an intersection.
	rangeMajor
)

// VersionRange is an immutable version constraint expression. The zero
// value matches every version.
type VersionRange struct {
	kind    rangeKind
	version types.Version
	left    *VersionRange
	right   *VersionRange
}

func AnyVersion() VersionRange {
	return VersionRange{kind: rangeAny}
}

func NoVersion() VersionRange {
	return VersionRange{kind: rangeNone}
}

func ThisVersion(v types.Version) VersionRange {
	return VersionRange{kind: rangeThis, version: v}
}

func LaterVersion(v types.Version) VersionRange {
	return VersionRange{kind: rangeLater, version: v}
}

func EarlierVersion(v types.Version) VersionRange {
	return VersionRange{kind: rangeEarlier, version: v}
}

func OrLaterVersion(v types.Version) VersionRange {
	return VersionRange{kind: rangeOrLater, version: v}
}

func OrEarlierVersion(v types.Version) VersionRange {
	return VersionRange{kind: rangeOrEarlier, version: v}
}

// MajorBoundVersion is "^>=v": at least v and below the next major
// version, where the major version is the first two components of v.
func MajorBoundVersion(v types.Version) VersionRange {
	return IntersectRanges(OrLaterVersion(v), EarlierVersion(majorUpper(v)))
}

// IntersectRanges returns a range matching versions matched by both a and
// b. Any is the identity.
func IntersectRanges(a VersionRange, b VersionRange) VersionRange {
	if a.IsAny() {
		return b
	}
	if b.IsAny() {
		return a
	}
	return VersionRange{kind: rangeIntersect, left: &a, right: &b}
}

func UnionRanges(a VersionRange, b VersionRange) VersionRange {
	if a.IsAny() || b.IsAny() {
		return AnyVersion()
	}
	return VersionRange{kind: rangeUnion, left: &a, right: &b}
}

func (r VersionRange) IsAny() bool {
	return r.kind == rangeAny
}

func (r VersionRange) Contains(v types.Version) bool {
	switch r.kind {
	case rangeAny:
		return true
	case rangeNone:
		return false
	case rangeThis:
		return types.CompareVersions(v, r.version) == 0
	case rangeLater:
		return types.CompareVersions(v, r.version) > 0
	case rangeEarlier:
		return types.CompareVersions(v, r.version) < 0
	case rangeOrLater:
		return types.CompareVersions(v, r.version) >= 0
	case rangeOrEarlier:
		return types.CompareVersions(v, r.version) <= 0
	case rangeWildcard:
		return types.CompareVersions(v, r.version) >= 0 &&
			types.CompareVersions(v, wildcardUpper(r.version)) < 0
	case rangeIntersect:
		return r.left.Contains(v) && r.right.Contains(v)
	case rangeUnion:
		return r.left.Contains(v) || r.right.Contains(v)
	default:
		return false
	}
}

func (r VersionRange) String() string {
	switch r.kind {
	case rangeAny:
		return "-any"
	case rangeNone:
		return "-none"
	case rangeThis:
		return "==" + r.version.String()
	case rangeLater:
		return ">" + r.version.String()
	case rangeEarlier:
		return "<" + r.version.String()
	case rangeOrLater:
		return ">=" + r.version.String()
	case rangeOrEarlier:
		return "<=" + r.version.String()
	case rangeWildcard:
		return "==" + r.version.String() + ".*"
	case rangeIntersect:
		return parenthesizeUnion(*r.left) + " && " + parenthesizeUnion(*r.right)
	case rangeUnion:
		return r.left.String() + " || " + r.right.String()
	default:
		return ""
	}
}

func (r VersionRange) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

func parenthesizeUnion(r VersionRange) string {
	if r.kind == rangeUnion {
		return "(" + r.String() + ")"
	}
	return r.String()
}

func majorUpper(v types.Version) types.Version {
	branch := make([]int, 2)
	copy(branch, v.Branch)
	branch[1]++
	return types.Version{Branch: branch}
}

func wildcardUpper(v types.Version) types.Version {
	branch := append([]int(nil), v.Branch...)
	if len(branch) == 0 {
		return v
	}
	branch[len(branch)-1]++
	return types.Version{Branch: branch}
}

// ParseVersionRange parses expressions such as ">=1.0 && <2.0",
// "==1.2.*", "^>=1.4", "== {1.0, 1.1}", "(>=1 && <2) || ==3.0" and
// "-any". An empty string is Any.
func ParseVersionRange(raw string) (VersionRange, error) {
	p := &rangeParser{input: strings.TrimSpace(raw)}
	if p.input == "" {
		return AnyVersion(), nil
	}
	r, err := p.parseUnion()
	if err != nil {
		return VersionRange{}, err
	}
	p.skipSpace()
	if !p.done() {
		return VersionRange{}, p.fail()
	}
	return r, nil
}

type rangeParser struct {
	input string
	pos   int
}

func (p *rangeParser) done() bool {
	return p.pos >= len(p.input)
}

func (p *rangeParser) skipSpace() {
	for !p.done() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *rangeParser) consume(token string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], token) {
		p.pos += len(token)
		return true
	}
	return false
}

func (p *rangeParser) fail() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version range: %q", p.input))
}

func (p *rangeParser) parseUnion() (VersionRange, error) {
	left, err := p.parseIntersect()
	if err != nil {
		return VersionRange{}, err
	}
	for p.consume("||") {
		right, err := p.parseIntersect()
		if err != nil {
			return VersionRange{}, err
		}
		left = UnionRanges(left, right)
	}
	return left, nil
}

func (p *rangeParser) parseIntersect() (VersionRange, error) {
	left, err := p.parseAtom()
	if err != nil {
		return VersionRange{}, err
	}
	for p.consume("&&") {
		right, err := p.parseAtom()
		if err != nil {
			return VersionRange{}, err
		}
		left = IntersectRanges(left, right)
	}
	return left, nil
}

// rangeOps is ordered so that longer operators are tried first.
var rangeOps = []struct {
	token string
	kind  rangeKind
}{
	{"^>=", rangeMajor},
	{">=", rangeOrLater},
	{"<=", rangeOrEarlier},
	{"==", rangeThis},
	{">", rangeLater},
	{"<", rangeEarlier},
}

func (p *rangeParser) parseAtom() (VersionRange, error) {
	if p.consume("(") {
		inner, err := p.parseUnion()
		if err != nil {
			return VersionRange{}, err
		}
		if !p.consume(")") {
			return VersionRange{}, p.fail()
		}
		return inner, nil
	}
	if p.consume("-any") {
		return AnyVersion(), nil
	}
	if p.consume("-none") {
		return NoVersion(), nil
	}
	for _, op := range rangeOps {
		if !p.consume(op.token) {
			continue
		}
		if (op.kind == rangeThis || op.kind == rangeMajor) && p.consume("{") {
			return p.parseVersionSet(op.kind)
		}
		return p.parseVersion(op.kind)
	}
	return VersionRange{}, p.fail()
}

func (p *rangeParser) parseVersion(kind rangeKind) (VersionRange, error) {
	p.skipSpace()
	raw := p.readVersionToken()
	if kind == rangeThis && strings.HasSuffix(raw, ".*") {
		v, err := ParseVersion(strings.TrimSuffix(raw, ".*"))
		if err != nil {
			return VersionRange{}, p.fail()
		}
		return VersionRange{kind: rangeWildcard, version: v}, nil
	}
	v, err := ParseVersion(raw)
	if err != nil {
		return VersionRange{}, p.fail()
	}
	if kind == rangeMajor {
		return MajorBoundVersion(v), nil
	}
	return VersionRange{kind: kind, version: v}, nil
}

// parseVersionSet reads "{v1, v2, ...}" after "==" or "^>=" as the union of
// the operator applied to each version. The opening brace is consumed.
func (p *rangeParser) parseVersionSet(kind rangeKind) (VersionRange, error) {
	var set VersionRange
	for first := true; ; first = false {
		p.skipSpace()
		raw := p.readVersionToken()
		v, err := ParseVersion(raw)
		if err != nil {
			return VersionRange{}, p.fail()
		}
		member := ThisVersion(v)
		if kind == rangeMajor {
			member = MajorBoundVersion(v)
		}
		if first {
			set = member
		} else {
			set = UnionRanges(set, member)
		}
		if p.consume("}") {
			return set, nil
		}
		if !p.consume(",") {
			return VersionRange{}, p.fail()
		}
	}
}

func (p *rangeParser) readVersionToken() string {
	start := p.pos
	for !p.done() {
		c := p.input[p.pos]
		if c == ' ' || c == '\t' || c == '&' || c == '|' || c == '(' || c == ')' || c == ',' || c == '{' || c == '}' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}
