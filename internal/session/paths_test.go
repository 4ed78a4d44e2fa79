package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]PathClass{
		"/":                Public,
		"/about":           Public,
		"/courses":         Protected,
		"/courses/abc":     Protected,
		"/courses-archive": Protected,
		"/api/videos/v1":   Protected,
		"/api/courses":     Protected,
		"/api/auth/logout": Public,
		"/login":           AuthOnly,
		"/signup":          AuthOnly,
		"/signup/confirm":  AuthOnly,
		"/health/ready":    Public,
		"/COURSES":         Public,
	}
	for path, want := range tests {
		assert.Equal(t, want, Classify(path), path)
	}

	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "auth_only", AuthOnly.String())
	assert.Equal(t, "public", Public.String())
}
