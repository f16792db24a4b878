// Package alias holds the curated table of well-known organization names
// that sources spell differently from the registry, mapped to acronyms.
package alias

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"orglink/internal/linkage/normalize"
)

// defaultAliases are names the Federal Register commonly uses that differ
// from the registry's official names.
var defaultAliases = map[string]string{
	"environmental protection agency":                "EPA",
	"department of health and human services":        "HHS",
	"department of transportation":                   "DOT",
	"securities and exchange commission":             "SEC",
	"federal communications commission":              "FCC",
	"food and drug administration":                   "FDA",
	"centers for medicare & medicaid services":       "CMS",
	"centers for medicare and medicaid services":     "CMS",
	"internal revenue service":                       "IRS",
	"federal aviation administration":                "FAA",
	"occupational safety and health administration": "OSHA",
	"national aeronautics and space administration":  "NASA",
	"department of defense":                          "DOD",
	"department of agriculture":                      "USDA",
	"department of commerce":                         "DOC",
	"department of education":                        "ED",
	"department of energy":                           "DOE",
	"department of homeland security":                "DHS",
	"department of housing and urban development":    "HUD",
	"department of the interior":                     "DOI",
	"department of justice":                          "DOJ",
	"department of labor":                            "DOL",
	"department of state":                            "DOS",
	"department of the treasury":                     "TREASURY",
	"department of veterans affairs":                 "VA",
	"federal reserve system":                         "FED",
	"federal trade commission":                       "FTC",
	"nuclear regulatory commission":                  "NRC",
	"consumer financial protection bureau":           "CFPB",
	"small business administration":                  "SBA",
	"social security administration":                 "SSA",
}

// Table maps normalized names to normalized acronyms. It is immutable after
// construction and safe for concurrent lookups.
type Table struct {
	entries map[string]string
}

// New builds a table from raw name→acronym pairs. Keys and values are
// normalized; pairs with a blank side are ignored.
func New(pairs map[string]string) *Table {
	t := &Table{entries: make(map[string]string, len(pairs))}
	for name, acronym := range pairs {
		t.put(name, acronym)
	}
	return t
}

// Default returns the built-in table.
func Default() *Table {
	return New(defaultAliases)
}

func (t *Table) put(name, acronym string) {
	key := normalize.Name(name)
	value := normalize.Name(acronym)
	if key == "" || value == "" {
		return
	}
	t.entries[key] = value
}

// Lookup returns the acronym for an already-normalized name.
func (t *Table) Lookup(normalizedName string) (string, bool) {
	if t == nil {
		return "", false
	}
	acronym, ok := t.entries[normalizedName]
	return acronym, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Merge returns a new table with other's entries layered over t's.
func (t *Table) Merge(other map[string]string) *Table {
	merged := &Table{entries: make(map[string]string, t.Len()+len(other))}
	if t != nil {
		for k, v := range t.entries {
			merged.entries[k] = v
		}
	}
	for name, acronym := range other {
		merged.put(name, acronym)
	}
	return merged
}

type file struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadFile reads a YAML document of the form
//
//	aliases:
//	  "bureau of ocean energy management": BOEM
//
// and returns the default table extended with its entries.
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	return Parse(raw)
}

// Parse is LoadFile over an in-memory document.
func Parse(raw []byte) (*Table, error) {
	var doc file
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}
	return Default().Merge(doc.Aliases), nil
}
