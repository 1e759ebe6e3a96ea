package types

type RepositorySummary struct {
	Name     string   `yaml:"name"`
	Kind     RepoKind `yaml:"kind"`
	Path     string   `yaml:"path"`
	Packages int      `yaml:"packages"`
	Missing  bool     `yaml:"missing,omitempty"`
}

// IndexSummary is the serialisable view of a loaded source package
// database: versions per package name in ascending order.
type IndexSummary struct {
	Repositories []RepositorySummary `yaml:"repositories"`
	Packages     map[string][]string `yaml:"packages"`
	Preferences  map[string]string   `yaml:"preferences,omitempty"`
	Warnings     []Warning           `yaml:"warnings,omitempty"`
}

type BrokenEdge struct {
	Package string `yaml:"package"`
	Missing string `yaml:"missing"`
}

type InstalledReport struct {
	Packages []InstalledPackage `yaml:"packages"`
	Broken   []BrokenEdge       `yaml:"broken,omitempty"`
}
