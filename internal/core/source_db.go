package core

import "pkgindex/internal/types"

// SourcePackageDb is the aggregate of all configured repositories.
type SourcePackageDb struct {
	Index       *PackageIndex[types.SourcePackage]
	Preferences map[string]VersionRange
}

func EmptySourcePackageDb() SourcePackageDb {
	return SourcePackageDb{
		Index:       NewPackageIndex[types.SourcePackage](nil),
		Preferences: map[string]VersionRange{},
	}
}

func (db SourcePackageDb) Preference(name string) VersionRange {
	if r, ok := db.Preferences[name]; ok {
		return r
	}
	return AnyVersion()
}

// PreferredVersion returns the latest version of name inside its preferred
// range, falling back to the latest version overall.
func (db SourcePackageDb) PreferredVersion(name string) (types.SourcePackage, bool) {
	versions := db.Index.Lookup(name)
	if len(versions) == 0 {
		return types.SourcePackage{}, false
	}
	pref := db.Preference(name)
	for i := len(versions) - 1; i >= 0; i-- {
		if pref.Contains(versions[i].ID.Version) {
			return versions[i], true
		}
	}
	return versions[len(versions)-1], true
}

// Summary renders the database for serialisation.
func (db SourcePackageDb) Summary() types.IndexSummary {
	summary := types.IndexSummary{Packages: map[string][]string{}}
	for _, name := range db.Index.Names() {
		for _, pkg := range db.Index.Lookup(name) {
			summary.Packages[name] = append(summary.Packages[name], pkg.ID.Version.String())
		}
	}
	if len(db.Preferences) > 0 {
		summary.Preferences = map[string]string{}
		for _, name := range PreferenceNames(db.Preferences) {
			summary.Preferences[name] = db.Preferences[name].String()
		}
	}
	return summary
}
