package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads the given file (e.g. ".env") into the process environment so that
// VIMANA_* overrides can live next to the binary. Variables already set in the
// environment win. The file may be missing; that is not an error.
func Load(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
