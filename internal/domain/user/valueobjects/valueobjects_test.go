package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		expected  string
	}{
		{name: "valid email", input: "test@example.com", expected: "test@example.com"},
		{name: "uppercase is normalized", input: "Test@Example.COM", expected: "test@example.com"},
		{name: "spaces are trimmed", input: " student@unical.it ", expected: "student@unical.it"},
		{name: "empty email", input: "", wantError: true},
		{name: "no at sign", input: "testexample.com", wantError: true},
		{name: "no tld", input: "test@example", wantError: true},
		{name: "too long", input: strings.Repeat("a", 250) + "@example.com", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewEmail(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, email)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, email.String())
		})
	}
}

func TestEmail_Equals(t *testing.T) {
	a, _ := NewEmail("a@example.com")
	b, _ := NewEmail("A@EXAMPLE.com")
	c, _ := NewEmail("c@example.com")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}

func TestPasswordPolicy(t *testing.T) {
	policy := NewPasswordPolicy(12)

	_, err := policy.NewPassword("short")
	assert.Error(t, err)

	pw, err := policy.NewPassword("long-enough-pass")
	require.NoError(t, err)
	assert.Equal(t, "long-enough-pass", pw.String())

	// 12 runes, more than 12 bytes
	_, err = policy.NewPassword("àèìòùàèìòùàè")
	assert.NoError(t, err)

	_, err = policy.NewPassword(strings.Repeat("x", MaxPasswordLength+1))
	assert.Error(t, err)

	assert.Equal(t, 12, NewPasswordPolicy(0).MinLength)
}
