package include

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath resolves includePath against the directory of the including
// file. Absolute paths (including ones written with a leading backslash) and
// "~" home references are not joined.
func ResolvePath(includerPath, includePath string) string {
	includePath = strings.TrimSpace(includePath)

	if includePath == "~" || strings.HasPrefix(includePath, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(includePath[1:], "/"))
		}
	}

	if filepath.IsAbs(includePath) || strings.HasPrefix(includePath, `\`) {
		return filepath.Clean(includePath)
	}

	return filepath.Join(filepath.Dir(includerPath), includePath)
}
