package utils

import (
	"strings"
	"unicode/utf8"
)

// MaskEmail hides the local part of an address for logs, keeping its first
// character: " Mario.Rossi@Unical.it " logs as "m***@unical.it". The input is
// normalised the same way accounts are stored.
func MaskEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "***"
	}
	first, _ := utf8.DecodeRuneInString(email[:at])
	return string(first) + "***@" + email[at+1:]
}
