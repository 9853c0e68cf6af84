package utils

import "unicode"

// IsTitle reports whether s is title-cased: it has at least one cased rune,
// every upper-case rune follows an uncased one, and every lower-case rune
// follows a cased one. "Syscalls" and "My_Stubs" are title-cased,
// "syscalls", "SysCalls" and "MY" are not.
func IsTitle(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}
