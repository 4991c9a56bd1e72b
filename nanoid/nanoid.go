// Package nanoid generates short unique identifiers used for harvest batch
// ids and similar ephemeral keys.
package nanoid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16

	lowerUpper       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberLowerUpper = "0123456789" + lowerUpper
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 {
		size = l[0]
	}
	return size
}

// Must generates an optional length nanoid using the default alphabet.
func Must(l ...int) string {
	size := getSize(l...)
	return gonanoid.Must(size)
}

// String generates an optional length nanoid over letters and digits.
func String(l ...int) string {
	size := getSize(l...)
	return gonanoid.MustGenerate(numberLowerUpper, size)
}

// Alpha generates an optional length nanoid over letters only.
func Alpha(l ...int) string {
	size := getSize(l...)
	return gonanoid.MustGenerate(lowerUpper, size)
}
