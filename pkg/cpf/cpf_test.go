package cpf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice/pkg/cpf"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		valid bool
	}{
		{"valid bare digits", "52998224725", true},
		{"valid with punctuation", "529.982.247-25", true},
		{"valid alternate", "11144477735", true},
		{"wrong first check digit", "52998224715", false},
		{"wrong second check digit", "52998224724", false},
		{"too short", "5299822472", false},
		{"too long", "529982247250", false},
		{"all same digits", "11111111111", false},
		{"all same with punctuation", "999.999.999-99", false},
		{"palindrome with valid check digits", "00001910000", false},
		{"palindrome with punctuation", "000.019.100-00", false},
		{"letters", "5299822472a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, cpf.Valid(tt.cpf))
		})
	}
}
