package types

type RepoKind string

const (
	RepoKindRemote RepoKind = "remote"
	RepoKindLocal  RepoKind = "local"
)

// Repository names a configured package repository and the local path of
// its index archive. For local repositories Name is usually the directory.
type Repository struct {
	Name      string   `yaml:"name" mapstructure:"name"`
	Kind      RepoKind `yaml:"kind" mapstructure:"kind"`
	IndexPath string   `yaml:"path" mapstructure:"path"`
}

func (r Repository) IsRemote() bool {
	return r.Kind != RepoKindLocal
}

// Label is the repository name used in diagnostics.
func (r Repository) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.IndexPath
}

type WarningKind string

const (
	WarningNoRepositories WarningKind = "no-repositories"
	WarningMissingIndex   WarningKind = "missing-index"
	WarningStaleIndex     WarningKind = "stale-index"
)

type Warning struct {
	Kind       WarningKind `yaml:"kind"`
	Repository string      `yaml:"repository,omitempty"`
	Message    string      `yaml:"message"`
}
