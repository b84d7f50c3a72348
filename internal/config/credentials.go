// Package config supplies the two pieces of persistent state this tool
// reads: the Linear API key and the cached team selection.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
)

// EnvVar is the environment variable holding the Linear API key.
const EnvVar = "LINEAR_API_KEY"

// CredentialsError means no API key could be found anywhere.
type CredentialsError struct{}

func (e *CredentialsError) Error() string {
	return strings.Join([]string{
		"no Linear API key found",
		"",
		"Set the " + EnvVar + " environment variable, or add a line like",
		"",
		"  " + EnvVar + "=\"lin_api_...\"",
		"",
		"to a .env file at the root of this repository.",
		"Create a personal API key at https://linear.app/settings/api",
	}, "\n")
}

// APIKey resolves the Linear API key: the environment variable first,
// then a .env file at the repository root. Returns CredentialsError when
// neither yields a value.
func APIKey(repoRoot string) (string, error) {
	if key := os.Getenv(EnvVar); key != "" {
		return key, nil
	}

	// A missing or malformed .env is the same as an empty one.
	if env, err := gotenv.Read(filepath.Join(repoRoot, ".env")); err == nil {
		if key := env[EnvVar]; key != "" {
			return key, nil
		}
	}

	return "", &CredentialsError{}
}
