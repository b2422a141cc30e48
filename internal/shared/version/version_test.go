package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "dev"},
		{"dev", "dev"},
		{"1.4.0", "v1.4.0"},
		{" v1.4 ", "v1.4.0"},
		{"v2.0.0-rc.1", "v2.0.0-rc.1"},
		{"not-a-version", "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(tt.raw))
		})
	}
}

func TestIsRelease(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	assert.False(t, IsRelease())

	Version = "1.4.0"
	assert.True(t, IsRelease())

	Version = "1.5.0-beta.2"
	assert.False(t, IsRelease())
}
