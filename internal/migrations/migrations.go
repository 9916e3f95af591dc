// Package migrations holds the schema, applied in file name order. The root
// files are the Postgres dialect; sqlite/ mirrors them file for file.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var FS embed.FS

//go:embed sqlite/*.sql
var sqliteFiles embed.FS

// SQLite is the SQLite dialect rooted like FS.
var SQLite fs.FS = mustSub(sqliteFiles, "sqlite")

func mustSub(f embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic("migrations: " + err.Error())
	}
	return sub
}

// Files returns the Postgres migration file names in apply order.
func Files() ([]string, error) {
	return List(FS)
}

// List returns the *.sql names of fsys in apply order.
func List(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Statements splits a migration into single statements for drivers that
// execute one at a time. Lines starting with "--" are dropped.
func Statements(src string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
