package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	Version, Commit, Date = "dev", "none", "unknown"

	apply(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123abcd"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
		},
	})

	assert.Equal(t, "v0.3.1", Version)
	assert.Equal(t, "0123abcd", Commit)
	assert.Equal(t, "2024-05-01T10:00:00Z", Date)
	assert.Equal(t, "langtrends v0.3.1 (commit: 0123abcd, built: 2024-05-01T10:00:00Z)", String())
}

func TestApply_KeepsLinkerValues(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	Version, Commit, Date = "v1.0.0", "feedface", "2020-01-01"

	apply(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123abcd"}},
	})

	assert.Equal(t, "v1.0.0", Version)
	assert.Equal(t, "feedface", Commit)
	assert.Equal(t, "2020-01-01", Date)
}
