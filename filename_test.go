package cstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameCheck(t *testing.T) {
	tests := map[string]struct {
		path     string
		wantMsgs int
	}{
		"conventional source path": {
			path:     "src/net/socket_util.c",
			wantMsgs: 0,
		},
		"uppercase file name": {
			path:     "src/Socket.c",
			wantMsgs: 1,
		},
		"uppercase directory name": {
			path:     "Src/socket.c",
			wantMsgs: 1,
		},
		"space in file name": {
			path:     "src/socket util.c",
			wantMsgs: 1,
		},
		"dash is legal in directories but not files": {
			path:     "third-party/socket-util.c",
			wantMsgs: 1,
		},
		"allowlisted build file": {
			path:     "src/CMakeLists.txt",
			wantMsgs: 0,
		},
		"uppercase markdown document": {
			path:     "README.md",
			wantMsgs: 0,
		},
		"license file": {
			path:     "LICENSE",
			wantMsgs: 0,
		},
		"relative prefix is ignored": {
			path:     "./src/socket.c",
			wantMsgs: 0,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			check := NewFilenameCheck(testConfig())
			violations := check.RunPath(test.path)

			assert.Len(t, violations, test.wantMsgs)
			for _, v := range violations {
				assert.False(t, v.Fixable, "filename violations require a rename")
				assert.Equal(t, CheckNameFilename, v.Check)
			}
		})
	}
}

func TestFilenameExtensionOutsideAllowedSet(t *testing.T) {
	check := NewFilenameCheck(testConfig())

	t.Run("hpp header in an h project", func(t *testing.T) {
		violations := check.RunPath("src/socket.hpp")
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Message, ".hpp")
	})

	t.Run("cpp source in a c project", func(t *testing.T) {
		violations := check.RunPath("src/socket.cpp")
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0].Message, ".cpp")
	})

	t.Run("configured extensions pass", func(t *testing.T) {
		assert.Empty(t, check.RunPath("src/socket.h"))
		assert.Empty(t, check.RunPath("src/socket.c"))
	})
}

func TestFilenameInvalidPatternFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.Filename.FilePattern = `([`

	check := NewFilenameCheck(cfg)
	assert.Empty(t, check.RunPath("src/socket.c"))
	assert.NotEmpty(t, check.RunPath("src/Socket.c"))
}

func TestFilenameAppliesToEverything(t *testing.T) {
	check := NewFilenameCheck(testConfig())

	assert.True(t, check.Applies("foo.c"))
	assert.True(t, check.Applies("Makefile"))
}
