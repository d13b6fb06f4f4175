package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.Equal(t, "0.0.0-dev", GetVersion())
	assert.True(t, IsDev())

	oldVersion, oldCommit := version, commit
	t.Cleanup(func() { version, commit = oldVersion, oldCommit })

	version, commit = "1.4.2", "abc123"
	assert.Equal(t, "1.4.2+abc123", GetVersion())
	assert.False(t, IsDev())
	assert.Equal(t, uint64(4), Semver().Minor())

	version = "not-a-version"
	assert.Equal(t, "0.0.0", Semver().String())
}
