package core

import (
	"sort"

	"pkgindex/internal/types"
)

// Identified is implemented by records that can be stored in a
// PackageIndex.
type Identified interface {
	PackageID() types.PackageID
}

// PackageIndex maps package names to version-ordered records. A name never
// holds two records with the same version; the first one inserted wins.
type PackageIndex[T Identified] struct {
	byName map[string][]T
	size   int
}

// NewPackageIndex builds an index from items in order. Later items whose
// (name, version) is already present are dropped.
func NewPackageIndex[T Identified](items []T) *PackageIndex[T] {
	idx := &PackageIndex[T]{byName: map[string][]T{}}
	seen := map[string]map[string]struct{}{}
	for _, item := range items {
		id := item.PackageID()
		versions := seen[id.Name]
		if versions == nil {
			versions = map[string]struct{}{}
			seen[id.Name] = versions
		}
		key := id.Version.String()
		if _, ok := versions[key]; ok {
			continue
		}
		versions[key] = struct{}{}
		idx.byName[id.Name] = append(idx.byName[id.Name], item)
		idx.size++
	}
	for name := range idx.byName {
		list := idx.byName[name]
		sort.SliceStable(list, func(i, j int) bool {
			return types.CompareVersions(list[i].PackageID().Version, list[j].PackageID().Version) < 0
		})
	}
	return idx
}

func (i *PackageIndex[T]) Len() int {
	if i == nil {
		return 0
	}
	return i.size
}

// Names returns package names in lexical order.
func (i *PackageIndex[T]) Names() []string {
	if i == nil {
		return nil
	}
	names := make([]string, 0, len(i.byName))
	for name := range i.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns all versions of name, lowest first.
func (i *PackageIndex[T]) Lookup(name string) []T {
	if i == nil {
		return nil
	}
	return append([]T(nil), i.byName[name]...)
}

func (i *PackageIndex[T]) LookupID(id types.PackageID) (T, bool) {
	var zero T
	if i == nil {
		return zero, false
	}
	for _, item := range i.byName[id.Name] {
		if item.PackageID().Version.Equal(id.Version) {
			return item, true
		}
	}
	return zero, false
}

func (i *PackageIndex[T]) Latest(name string) (T, bool) {
	var zero T
	if i == nil {
		return zero, false
	}
	list := i.byName[name]
	if len(list) == 0 {
		return zero, false
	}
	return list[len(list)-1], true
}

// All returns every record ordered by name, then version.
func (i *PackageIndex[T]) All() []T {
	if i == nil {
		return nil
	}
	out := make([]T, 0, i.size)
	for _, name := range i.Names() {
		out = append(out, i.byName[name]...)
	}
	return out
}
