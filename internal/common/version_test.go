package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetVersionInfo(t *testing.T) {
	t.Helper()
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	Version, Build, GitCommit = "dev", "unknown", "unknown"
	t.Cleanup(func() {
		Version, Build, GitCommit = origVersion, origBuild, origCommit
	})
}

func TestApplyVersionFile(t *testing.T) {
	resetVersionInfo(t)

	applyVersionFile(strings.NewReader(`
# build metadata
version: 1.4.2
build: 2026-08-27T10:00:00Z
gitcommit: abc1234
not a key-value line
unknownkey: ignored
`))

	assert.Equal(t, "1.4.2", GetVersion())
	assert.Equal(t, "2026-08-27T10:00:00Z", GetBuild())
	assert.Equal(t, "abc1234", GetGitCommit())
	assert.Equal(t, "1.4.2 (build: 2026-08-27T10:00:00Z, commit: abc1234)", GetFullVersion())
}

func TestApplyVersionFileKeepsLdflagsValues(t *testing.T) {
	resetVersionInfo(t)
	Version = "2.0.0"
	GitCommit = "def5678"

	applyVersionFile(strings.NewReader("version: 1.0.0\nbuild: b1\ngitcommit: zzz9999"))

	assert.Equal(t, "2.0.0", Version, "file never overrides an ldflags value")
	assert.Equal(t, "b1", Build, "defaults still fill from the file")
	assert.Equal(t, "def5678", GitCommit)
}
