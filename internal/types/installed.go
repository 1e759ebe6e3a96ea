package types

// InstalledRecord is one entry of an installed-package enumeration, as
// produced by the toolchain for a single package DB scope.
type InstalledRecord struct {
	InstalledID string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Version     Version  `yaml:"version"`
	Scope       string   `yaml:"scope"`
	Depends     []string `yaml:"depends,omitempty"`
}

type DependencyKind string

const (
	DependencyResolved DependencyKind = "resolved"
	DependencyBroken   DependencyKind = "broken"
)

// Dependency is an installed graph edge after resolution. Broken edges
// carry a synthetic ID named after the missing installation id.
type Dependency struct {
	Kind        DependencyKind `yaml:"kind"`
	ID          PackageID      `yaml:"id"`
	InstalledID string         `yaml:"installed_id"`
}

func (d Dependency) IsBroken() bool {
	return d.Kind == DependencyBroken
}

type InstalledPackage struct {
	InstalledID string       `yaml:"installed_id"`
	ID          PackageID    `yaml:"id"`
	Scope       string       `yaml:"scope"`
	Depends     []Dependency `yaml:"depends,omitempty"`
}

func (p InstalledPackage) PackageID() PackageID {
	return p.ID
}
