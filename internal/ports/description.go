package ports

import "pkgindex/internal/types"

type DescriptionParserPort interface {
	Parse(content []byte) (types.PackageDescription, error)
}
