package nanoid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16

	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	number    = "0123456789"

	// Alphabet is the character set of object keys.
	Alphabet = number + lowercase + uppercase
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 && l[0] > 0 {
		size = l[0]
	}
	return size
}

// Must generate optional length nanoid
func Must(l ...int) string {
	size := getSize(l...)
	return gonanoid.Must(size)
}

// String generate optional length nanoid made of letters and digits
func String(l ...int) string {
	size := getSize(l...)
	return gonanoid.MustGenerate(Alphabet, size)
}

// Lower generate optional length nanoid, lowercase letters and digits only
func Lower(l ...int) string {
	size := getSize(l...)
	return gonanoid.MustGenerate(number+lowercase, size)
}

// IsKey reports whether s looks like a key produced by String.
func IsKey(s string, l ...int) bool {
	if len(s) != getSize(l...) {
		return false
	}
	for _, r := range s {
		if !isAlnum(r) {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
