package cli_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// unsetEnvOnCleanup removes variables that were set by loading .env files.
func unsetEnvOnCleanup(t *testing.T, keys ...string) {
	t.Helper()

	t.Cleanup(func() {
		for _, key := range keys {
			_ = os.Unsetenv(key)
		}
	})
}
