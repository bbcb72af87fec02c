package dict

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadJSONFixture reads a reading->entries map from a JSON file and builds a
// TrieDictionary from it. This is a manual-exercise convenience for local
// testing against small hand-written dictionaries; the binary LXDX format
// (Open/Save) remains the format a real deployment ships.
func LoadJSONFixture(path string) (*TrieDictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dict: failed to read fixture %s: %w", path, err)
	}
	var byReading map[string][]Entry
	if err := json.Unmarshal(data, &byReading); err != nil {
		return nil, fmt.Errorf("dict: failed to parse fixture %s: %w", path, err)
	}
	log.Debugf("loaded JSON fixture with %d readings from %s", len(byReading), path)
	return BuildTrieDictionary(byReading), nil
}
