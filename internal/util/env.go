package util

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file when present. Missing files are not an
// error so that deployments relying on real environment variables work
// without one.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}
