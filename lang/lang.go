// Package lang provides the localized strings shown to chat users.
package lang

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultLanguage is used for keys missing from the selected language.
const DefaultLanguage = "en"

//go:embed locales/*.yml
var locales embed.FS

// Catalog resolves keys in one language with fallback to DefaultLanguage.
type Catalog struct {
	language string
	strings  map[string]string
	fallback map[string]string
}

// Load builds the catalog of language.
func Load(language string) (*Catalog, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultLanguage
	}

	fallback, err := readLocale(DefaultLanguage)
	if err != nil {
		return nil, err
	}
	if language == DefaultLanguage {
		return &Catalog{language: language, strings: fallback, fallback: fallback}, nil
	}

	selected, err := readLocale(language)
	if err != nil {
		return nil, err
	}
	return &Catalog{language: language, strings: selected, fallback: fallback}, nil
}

// Get returns the string for key. Unknown keys resolve to the key itself.
func (c *Catalog) Get(key string) string {
	if v, ok := c.strings[key]; ok {
		return v
	}
	if v, ok := c.fallback[key]; ok {
		return v
	}
	return key
}

// Language returns the catalog language.
func (c *Catalog) Language() string {
	return c.language
}

// Available lists the embedded languages.
func Available() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}
	var list []string
	for _, e := range entries {
		list = append(list, strings.TrimSuffix(e.Name(), ".yml"))
	}
	sort.Strings(list)
	return list
}

func readLocale(language string) (map[string]string, error) {
	data, err := locales.ReadFile(path.Join("locales", language+".yml"))
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q (available: %s): %w",
			language, strings.Join(Available(), ", "), err)
	}
	m := make(map[string]string)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse language %q: %w", language, err)
	}
	return m, nil
}
