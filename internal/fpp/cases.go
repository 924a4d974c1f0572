package fpp

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed cases/*.yaml
var caseFS embed.FS

// CaseNames возвращает имена встроенных экземпляров в алфавитном порядке.
func CaseNames() []string {
	entries, err := caseFS.ReadDir("cases")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Case загружает встроенный экземпляр по имени.
func Case(name string) (*Instance, error) {
	data, err := caseFS.ReadFile("cases/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown case %q (available: %s)", name, strings.Join(CaseNames(), ", "))
	}
	inst, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("case %s: %w", name, err)
	}
	return inst, nil
}

// Cases загружает весь встроенный каталог.
func Cases() ([]*Instance, error) {
	names := CaseNames()
	out := make([]*Instance, 0, len(names))
	for _, n := range names {
		inst, err := Case(n)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}
