package adapters

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgindex/internal/core"
	"pkgindex/internal/ports"
	"pkgindex/internal/types"
)

// CabalDescriptionParser reads the top-level fields of a .cabal file. A
// description must carry a name and a parseable version.
type CabalDescriptionParser struct{}

func NewCabalDescriptionParser() CabalDescriptionParser {
	return CabalDescriptionParser{}
}

func (p CabalDescriptionParser) Parse(content []byte) (types.PackageDescription, error) {
	fields, err := scanFields(content)
	if err != nil {
		return types.PackageDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid package description").
			WithCause(err)
	}
	name := fields["name"]
	if name == "" {
		return types.PackageDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package description has no name field")
	}
	version := fields["version"]
	if _, err := core.ParseVersion(version); err != nil {
		return types.PackageDescription{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package description has no valid version field").
			WithCause(err)
	}
	return types.PackageDescription{
		Name:    name,
		Version: version,
		Fields:  fields,
		Raw:     content,
	}, nil
}

var _ ports.DescriptionParserPort = CabalDescriptionParser{}
