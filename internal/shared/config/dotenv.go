package config

import "github.com/joho/godotenv"

// loadEnvFiles loads the given env files if they exist. Variables already
// present in the environment win. Errors are ignored.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}
