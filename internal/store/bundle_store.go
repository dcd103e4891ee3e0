package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"signalkeys/internal/domain"
)

// ErrNoBundle is returned by ReadBundle when path does not exist.
var ErrNoBundle = errors.New("bundle file not found")

// WriteBundle exports a public pre-key bundle as JSON. Bundles hold no
// secrets, so the file is world readable.
func WriteBundle(path string, b domain.PreKeyBundle) error {
	return writeJSON(path, b, 0o644)
}

// ReadBundle loads a bundle written by WriteBundle or fetched from a peer.
func ReadBundle(path string) (domain.PreKeyBundle, error) {
	raw, err := readFile(path)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if raw == nil {
		return domain.PreKeyBundle{}, fmt.Errorf("%w: %s", ErrNoBundle, path)
	}
	var b domain.PreKeyBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.PreKeyBundle{}, fmt.Errorf("decode bundle %s: %w", path, err)
	}
	return b, nil
}
