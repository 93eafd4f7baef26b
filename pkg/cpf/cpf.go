// Package cpf validates Brazilian CPF tax identifiers.
package cpf

import "strings"

// Valid reports whether cpf is a well-formed CPF number. Punctuation
// (e.g. "529.982.247-25") is stripped before validation.
func Valid(cpf string) bool {
	digits := strip(cpf)
	if len(digits) != 11 {
		return false
	}

	// Sequences that read the same reversed, like 111.111.111-11 or
	// 000.019.100-00, can satisfy the checksum but are not valid CPFs.
	if palindrome(digits) {
		return false
	}

	d1 := checkDigit(digits[:9], 10)
	d2 := checkDigit(digits[:10], 11)

	return int(digits[9]-'0') == d1 && int(digits[10]-'0') == d2
}

// strip removes everything but decimal digits.
func strip(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func palindrome(digits string) bool {
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		if digits[i] != digits[j] {
			return false
		}
	}
	return true
}

// checkDigit computes a CPF verification digit over digits, weighting the
// first digit with weight and decreasing by one per position.
func checkDigit(digits string, weight int) int {
	total := 0
	for i := 0; i < len(digits); i++ {
		total += int(digits[i]-'0') * weight
		weight--
	}
	d := (total * 10) % 11
	if d > 9 {
		d = 0
	}
	return d
}
