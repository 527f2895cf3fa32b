// Package manifest reads the local package.json.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filename is the npm package manifest.
const Filename = "package.json"

type packageJSON struct {
	Name string `json:"name"`
}

// ReadName returns the package name declared in dir/package.json. A
// missing manifest yields "" and no error, so callers decide whether that
// is a usage problem.
func ReadName(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", Filename, err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", filepath.Join(dir, Filename), err)
	}
	return strings.TrimSpace(pkg.Name), nil
}
