package cstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]struct {
		path     string
		expected string
	}{
		"empty path stays empty": {
			path:     "",
			expected: "",
		},
		"clean relative path": {
			path:     "src/net/socket.c",
			expected: "src/net/socket.c",
		},
		"redundant elements are cleaned": {
			path:     "src/./net/../net/socket.c",
			expected: "src/net/socket.c",
		},
		"trailing slash is dropped": {
			path:     "src/net/",
			expected: "src/net",
		},
		"backslashes become forward slashes": {
			path:     `src\net\socket.c`,
			expected: "src/net/socket.c",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePath(tc.path))
		})
	}
}

func TestJoinPaths(t *testing.T) {
	assert.Equal(t, "cache/header-guards", JoinPaths("cache", "header-guards"))
	assert.Equal(t, "src/net/socket.c", JoinPaths("src", ".", "net", "socket.c"))
	assert.Equal(t, "", JoinPaths())
}

func TestIsSubPath(t *testing.T) {
	tests := map[string]struct {
		parent   string
		child    string
		expected bool
	}{
		"direct child": {
			parent:   "src",
			child:    "src/socket.c",
			expected: true,
		},
		"nested child": {
			parent:   "src",
			child:    "src/net/socket.c",
			expected: true,
		},
		"same path": {
			parent:   "src/net",
			child:    "src/net",
			expected: true,
		},
		"sibling with common prefix": {
			parent:   "src",
			child:    "srclib/socket.c",
			expected: false,
		},
		"unrelated path": {
			parent:   "src",
			child:    "include/socket.h",
			expected: false,
		},
		"empty parent contains everything": {
			parent:   "",
			child:    "src/socket.c",
			expected: true,
		},
		"dot parent contains everything": {
			parent:   ".",
			child:    "src/socket.c",
			expected: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsSubPath(tc.parent, tc.child))
		})
	}
}
