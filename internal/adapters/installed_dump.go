package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pkgindex/internal/core"
	"pkgindex/internal/ports"
	"pkgindex/internal/types"
)

// ScopeDump points at the `ghc-pkg dump` output of one package DB.
type ScopeDump struct {
	Scope string `mapstructure:"scope" yaml:"scope"`
	Path  string `mapstructure:"path" yaml:"path"`
}

// InstalledDumpAdapter enumerates installed packages from ghc-pkg dump
// files. Dumps are listed from most to least preferred scope.
type InstalledDumpAdapter struct {
	Dumps []ScopeDump
}

func NewInstalledDumpAdapter(dumps []ScopeDump) InstalledDumpAdapter {
	return InstalledDumpAdapter{Dumps: dumps}
}

func (a InstalledDumpAdapter) ScopeOrder() []string {
	order := make([]string, 0, len(a.Dumps))
	for _, dump := range a.Dumps {
		order = append(order, dump.Scope)
	}
	return order
}

func (a InstalledDumpAdapter) InstalledPackages(ctx context.Context) ([]types.InstalledRecord, error) {
	var records []types.InstalledRecord
	for _, dump := range a.Dumps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(dump.Path)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("installed package dump not readable: %s", dump.Path)).
				WithCause(err)
		}
		parsed, err := ParseInstalledDump(data, dump.Scope)
		if err != nil {
			return nil, err
		}
		log.Ctx(ctx).Debug().Str("scope", dump.Scope).Int("packages", len(parsed)).Msg("installed packages read")
		records = append(records, parsed...)
	}
	return records, nil
}

// ParseInstalledDump splits ghc-pkg dump output on "---" lines and reads
// the name, version, id and depends fields of each record.
func ParseInstalledDump(data []byte, scope string) ([]types.InstalledRecord, error) {
	var records []types.InstalledRecord
	for i, block := range splitDumpRecords(data) {
		if len(bytes.TrimSpace(block)) == 0 {
			continue
		}
		fields, err := scanFields(block)
		if err != nil {
			return nil, invalidDump(scope, i, err)
		}
		version, err := core.ParseVersion(fields["version"])
		if err != nil {
			return nil, invalidDump(scope, i, err)
		}
		record := types.InstalledRecord{
			InstalledID: fields["id"],
			Name:        fields["name"],
			Version:     version,
			Scope:       scope,
			Depends:     strings.Fields(fields["depends"]),
		}
		if record.InstalledID == "" || record.Name == "" {
			return nil, invalidDump(scope, i, fmt.Errorf("record needs name and id fields"))
		}
		records = append(records, record)
	}
	return records, nil
}

func splitDumpRecords(data []byte) [][]byte {
	var blocks [][]byte
	var current bytes.Buffer
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if string(bytes.TrimSpace(line)) == "---" {
			blocks = append(blocks, append([]byte(nil), current.Bytes()...))
			current.Reset()
			continue
		}
		current.Write(line)
	}
	return append(blocks, current.Bytes())
}

func invalidDump(scope string, record int, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid installed package record %d in scope %s", record, scope)).
		WithCause(err)
}

var _ ports.InstalledPackagesPort = InstalledDumpAdapter{}
