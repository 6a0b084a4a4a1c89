package philosophy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// fileSchema is the on-disk shape of a philosophy overlay file.
type fileSchema struct {
	Philosophies []Profile `yaml:"philosophies"`
}

// LoadFile reads a YAML file of additional or overriding profiles. Unknown
// top-level fields fail immediately so typos never silently pass.
func LoadFile(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f fileSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}

	for i := range f.Philosophies {
		if err := Validate(&f.Philosophies[i]); err != nil {
			return nil, err
		}
	}

	return f.Philosophies, nil
}

// Hash returns a reproducible SHA256 of a profile. Weights are serialized in
// sorted key order so the hash does not depend on map iteration.
func Hash(p *Profile) (string, error) {
	type pair struct {
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
	}
	canonical := struct {
		Name    string `json:"name"`
		Weights []pair `json:"weights"`
	}{Name: p.Name}

	names := make([]string, 0, len(p.Weights))
	for name := range p.Weights {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		canonical.Weights = append(canonical.Weights, pair{name, p.Weights[name]})
	}

	jsonBytes, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
