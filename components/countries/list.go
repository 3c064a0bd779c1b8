package countries

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/countries.txt
var dataFS embed.FS

const defaultListPath = "data/countries.txt"

// Country is one entry of the country list.
type Country struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	States []string `json:"states,omitempty"`
}

var (
	defaultOnce      sync.Once
	defaultCountries []Country
	defaultErr       error
)

// DefaultCountries returns a copy of the embedded country list sorted by
// name.
func DefaultCountries() ([]Country, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		list, err := LoadCountries(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCountries = list
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return clone(defaultCountries), nil
}

// LoadCountries parses `code|name|state;state` lines. Blank lines and lines
// starting with # are skipped; duplicate codes keep the first entry.
func LoadCountries(r io.Reader) ([]Country, error) {
	if r == nil {
		return nil, fmt.Errorf("countries: missing reader")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)
	list := make([]Country, 0, 200)
	seen := map[string]struct{}{}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("countries: line %d: expected code|name", lineNo)
		}
		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		name := strings.TrimSpace(parts[1])
		if code == "" || name == "" {
			return nil, fmt.Errorf("countries: line %d: empty code or name", lineNo)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}

		entry := Country{Code: code, Name: name}
		if len(parts) == 3 {
			for _, state := range strings.Split(parts[2], ";") {
				if state = strings.TrimSpace(state); state != "" {
					entry.States = append(entry.States, state)
				}
			}
		}
		list = append(list, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Find looks a country up by code or, case insensitively, by name.
func Find(list []Country, key string) (Country, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Country{}, false
	}
	for _, entry := range list {
		if strings.EqualFold(entry.Code, key) || strings.EqualFold(entry.Name, key) {
			return entry, true
		}
	}
	return Country{}, false
}

func clone(list []Country) []Country {
	out := make([]Country, len(list))
	for i, entry := range list {
		out[i] = entry
		if entry.States != nil {
			out[i].States = append([]string{}, entry.States...)
		}
	}
	return out
}
