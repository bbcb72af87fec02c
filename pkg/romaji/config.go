package romaji

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// tomlDoc mirrors the `[mappings]` table shape a custom romaji layout file
// must provide.
type tomlDoc struct {
	Mappings map[string]string `toml:"mappings"`
}

// ConfigError reports why a romaji mapping TOML document was rejected.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// parseMappingTOML parses TOML text into a romaji-to-kana mapping table,
// validating that every key is ASCII and every value is non-empty.
func parseMappingTOML(tomlStr string) (map[string]string, error) {
	var doc tomlDoc
	if _, err := toml.Decode(tomlStr, &doc); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("TOML parse error: %v", err)}
	}
	if len(doc.Mappings) == 0 {
		return nil, &ConfigError{Reason: "[mappings] table is empty"}
	}
	for key, value := range doc.Mappings {
		for _, r := range key {
			if r > 0x7F {
				return nil, &ConfigError{Reason: fmt.Sprintf("non-ASCII key: %s", key)}
			}
		}
		if value == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("empty value for key: %s", key)}
		}
	}
	return doc.Mappings, nil
}
