package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Doe", "john-doe"},
		{"  John   Doe  ", "john-doe"},
		{"John_Doe!", "john-doe"},
		{"Ada99", "ada99"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestRandomStringLengthAndUniqueness(t *testing.T) {
	a := RandomString(3)
	b := RandomString(3)
	assert.Len(t, a, 6)
	assert.NotEqual(t, a, b)
}

func TestUsernameFromName(t *testing.T) {
	name := UsernameFromName("John Doe")
	assert.Regexp(t, `^john-doe-[0-9a-f]{6}$`, name)

	// Unusable display names still yield a slug.
	assert.Regexp(t, `^user-[0-9a-f]{6}$`, UsernameFromName("!!!"))
}
