package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsVersion(t *testing.T) {
	assert.Equal(t, strings.TrimSpace(Version), Get())
}

func TestVersionNotEmptyAndPrefixed(t *testing.T) {
	s := Get()
	assert.NotEmpty(t, s)
	if s != "" {
		assert.Equal(t, byte('v'), s[0])
	}
}
