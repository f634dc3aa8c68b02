// Package reference holds the static province table used to resolve the
// province column of the Input register.
package reference

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed provinces.yaml
var provincesYAML []byte

// Province is one administrative province.
type Province struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Region string `yaml:"region"`
}

// Table is the on-disk shape of the reference data.
type Table struct {
	Provinces []Province        `yaml:"provinces"`
	Aliases   map[string]string `yaml:"aliases"`
}

// Resolution is the outcome of resolving a raw province value. Verified is
// false when the code was guessed from the raw text; Region and Name are
// then blank.
type Resolution struct {
	Code     string
	Region   string
	Name     string
	Verified bool
}

// Lookup resolves province names and codes. It is immutable once built and
// safe for concurrent use.
type Lookup struct {
	byKey      map[string]Province
	byStripped map[string]Province
	aliases    map[string]string
	count      int
}

// EmbeddedTable parses the province table compiled into the binary.
func EmbeddedTable() (Table, error) {
	var t Table
	if err := yaml.Unmarshal(provincesYAML, &t); err != nil {
		return Table{}, fmt.Errorf("parse embedded provinces: %w", err)
	}
	return t, nil
}

// LoadAliases reads extra alias corrections from a YAML file of
// `"NAME": CODE` pairs.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read province aliases %s: %w", path, err)
	}
	var aliases map[string]string
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("parse province aliases %s: %w", path, err)
	}
	return aliases, nil
}

// NewLookup builds a Lookup from a table plus optional extra aliases.
// Extra aliases override table aliases with the same key. When two entries
// collide after accent stripping the first one in table order wins.
func NewLookup(t Table, extra map[string]string) *Lookup {
	l := &Lookup{
		byKey:      make(map[string]Province, len(t.Provinces)*2),
		byStripped: make(map[string]Province, len(t.Provinces)),
		aliases:    make(map[string]string, len(t.Aliases)+len(extra)),
		count:      len(t.Provinces),
	}
	for _, p := range t.Provinces {
		p.Code = normalizeKey(p.Code)
		name := normalizeKey(p.Name)
		if _, ok := l.byKey[name]; !ok {
			l.byKey[name] = p
		}
		if _, ok := l.byKey[p.Code]; !ok {
			l.byKey[p.Code] = p
		}
		stripped := StripAccents(name)
		if _, ok := l.byStripped[stripped]; !ok {
			l.byStripped[stripped] = p
		}
	}
	for alias, code := range t.Aliases {
		l.aliases[StripAccents(normalizeKey(alias))] = normalizeKey(code)
	}
	for alias, code := range extra {
		l.aliases[StripAccents(normalizeKey(alias))] = normalizeKey(code)
	}
	return l
}

// Default builds the Lookup from the embedded table.
func Default() (*Lookup, error) {
	t, err := EmbeddedTable()
	if err != nil {
		return nil, err
	}
	return NewLookup(t, nil), nil
}

// Len returns the number of provinces in the table.
func (l *Lookup) Len() int { return l.count }

// Resolve maps a raw province value to its code, region and canonical name.
//
// Order: exact name or code, accent-stripped name, curated alias. Anything
// else is treated as an unverified code: the value itself when it is two
// characters long, otherwise its first two characters.
func (l *Lookup) Resolve(raw string) Resolution {
	key := normalizeKey(raw)
	if p, ok := l.byKey[key]; ok {
		return resolved(p)
	}
	stripped := StripAccents(key)
	if p, ok := l.byStripped[stripped]; ok {
		return resolved(p)
	}
	if code, ok := l.aliases[stripped]; ok {
		if p, ok := l.byKey[code]; ok {
			return resolved(p)
		}
		return Resolution{Code: code}
	}

	r := []rune(key)
	if len(r) > 2 {
		r = r[:2]
	}
	return Resolution{Code: string(r)}
}

func resolved(p Province) Resolution {
	return Resolution{Code: p.Code, Region: p.Region, Name: p.Name, Verified: true}
}
