package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the first .env file that exists.
// The environment-specific file (.env.<ENV>) wins over the plain .env file.
// Variables already present in the process environment are never overridden.
func LoadEnv(dirs ...string) (string, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	name := os.Getenv("ENV")
	if name == "" {
		name = os.Getenv("NODE_ENV")
	}

	var candidates []string
	for _, dir := range dirs {
		if name != "" {
			candidates = append(candidates, fmt.Sprintf("%s/.env.%s", dir, name))
		}
		candidates = append(candidates, fmt.Sprintf("%s/.env", dir))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("error reading env file %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("error loading env file %s: %w", path, err)
		}
		return path, nil
	}

	return "", nil
}
