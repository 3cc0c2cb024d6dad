package toml

import "fmt"

const schemaVersion = 1

type fileSchema struct {
	Version int               `toml:"version"`
	Tokens  map[string]string `toml:"tokens"`
}

func (s fileSchema) validateVersion() error {
	if s.Version > schemaVersion {
		return fmt.Errorf("unsupported tokens schema version %d (current %d)", s.Version, schemaVersion)
	}

	return nil
}
