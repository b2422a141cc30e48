package valueobjects

import (
	"fmt"
	"unicode/utf8"
)

// MaxPasswordLength bounds hashing cost for hostile input.
const MaxPasswordLength = 1024

// PasswordPolicy defines the password validation rules
type PasswordPolicy struct {
	MinLength int
}

// NewPasswordPolicy builds a policy; a non-positive minimum falls back to 12.
func NewPasswordPolicy(minLength int) PasswordPolicy {
	if minLength <= 0 {
		minLength = 12
	}
	return PasswordPolicy{MinLength: minLength}
}

// Password is a plaintext password that passed the policy. It is never persisted.
type Password struct {
	value string
}

// NewPassword checks length in characters, not bytes.
func (p PasswordPolicy) NewPassword(plain string) (*Password, error) {
	n := utf8.RuneCountInString(plain)
	if n < p.MinLength {
		return nil, fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}
	if n > MaxPasswordLength {
		return nil, fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	}
	return &Password{value: plain}, nil
}

func (p *Password) String() string {
	return p.value
}
