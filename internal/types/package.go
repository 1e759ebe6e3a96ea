package types

import (
	"strconv"
	"strings"
)

// Version is a Cabal-style version: a numeric branch plus optional tags.
// The zero value has no branch and marks an unconstrained version.
type Version struct {
	Branch []int    `yaml:"branch"`
	Tags   []string `yaml:"tags,omitempty"`
}

func (v Version) IsEmpty() bool {
	return len(v.Branch) == 0 && len(v.Tags) == 0
}

func (v Version) String() string {
	parts := make([]string, 0, len(v.Branch))
	for _, n := range v.Branch {
		parts = append(parts, strconv.Itoa(n))
	}
	out := strings.Join(parts, ".")
	for _, tag := range v.Tags {
		out += "-" + tag
	}
	return out
}

func (v Version) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v Version) Equal(other Version) bool {
	return CompareVersions(v, other) == 0
}

// CompareVersions orders by branch lexicographically, then by tags.
func CompareVersions(a Version, b Version) int {
	for i := 0; i < len(a.Branch) && i < len(b.Branch); i++ {
		if a.Branch[i] != b.Branch[i] {
			if a.Branch[i] < b.Branch[i] {
				return -1
			}
			return 1
		}
	}
	if len(a.Branch) != len(b.Branch) {
		if len(a.Branch) < len(b.Branch) {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a.Tags) && i < len(b.Tags); i++ {
		if c := strings.Compare(a.Tags[i], b.Tags[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a.Tags) < len(b.Tags):
		return -1
	case len(a.Tags) > len(b.Tags):
		return 1
	default:
		return 0
	}
}

type PackageID struct {
	Name    string  `yaml:"name"`
	Version Version `yaml:"version"`
}

func (id PackageID) String() string {
	if id.Version.IsEmpty() {
		return id.Name
	}
	return id.Name + "-" + id.Version.String()
}

func (id PackageID) Equal(other PackageID) bool {
	return id.Name == other.Name && id.Version.Equal(other.Version)
}

// PackageDescription is the parsed metadata file. Only Name and Version
// are interpreted; Fields and Raw are carried through untouched.
type PackageDescription struct {
	Name    string            `yaml:"name"`
	Version string            `yaml:"version"`
	Fields  map[string]string `yaml:"fields,omitempty"`
	Raw     []byte            `yaml:"-"`
}

type Provenance struct {
	Repository    Repository `yaml:"repository"`
	EntryPath     string     `yaml:"entry_path"`
	EntryIndex    int        `yaml:"entry_index"`
	ContentDigest string     `yaml:"content_digest"`
}

type SourcePackage struct {
	ID          PackageID          `yaml:"id"`
	Description PackageDescription `yaml:"description"`
	Provenance  Provenance         `yaml:"provenance"`
}

func (p SourcePackage) PackageID() PackageID {
	return p.ID
}
