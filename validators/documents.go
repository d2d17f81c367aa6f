// Package validators checks Brazilian identity and tax document numbers.
package validators

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidFormat is returned when a document number fails validation
var ErrInvalidFormat = errors.New("invalid document format")

const (
	cpfLength   = 11
	cnpjLength  = 14
	rgMinLength = 7
	rgMaxLength = 9
	cepLength   = 8
)

// OnlyDigits strips every non-digit character
func OnlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}

// cpfCheckDigit computes one CPF verifier over the first n digits,
// weighting from n+1 down to 2. A result of 10 maps to 0.
func cpfCheckDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	d := (sum * 10) % 11
	if d == 10 {
		d = 0
	}
	return d
}

// NormalizePersonTaxID returns the CPF digits
func NormalizePersonTaxID(value string) string {
	return OnlyDigits(value)
}

// ValidatePersonTaxID validates a CPF: 11 digits, not all identical, both check digits matching.
// The original value is returned unchanged on success.
func ValidatePersonTaxID(value string) (string, error) {
	cpf := NormalizePersonTaxID(value)
	if len(cpf) != cpfLength || allSame(cpf) {
		return "", ErrInvalidFormat
	}
	if cpfCheckDigit(cpf, 9) != int(cpf[9]-'0') {
		return "", ErrInvalidFormat
	}
	if cpfCheckDigit(cpf, 10) != int(cpf[10]-'0') {
		return "", ErrInvalidFormat
	}
	return value, nil
}

// NormalizeIdentityDocument keeps digits and X (uppercased)
func NormalizeIdentityDocument(value string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(value) {
		if unicode.IsDigit(r) || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateIdentityDocument validates an RG: 7 to 9 characters after stripping to digits and X
func ValidateIdentityDocument(value string) (string, error) {
	rg := NormalizeIdentityDocument(value)
	if len(rg) < rgMinLength || len(rg) > rgMaxLength {
		return "", ErrInvalidFormat
	}
	return value, nil
}

// NormalizeOrganizationTaxID returns the CNPJ digits
func NormalizeOrganizationTaxID(value string) string {
	return OnlyDigits(value)
}

// ValidateOrganizationTaxID validates the CNPJ format only: 14 digits, not all identical.
// Check digits are not verified.
func ValidateOrganizationTaxID(value string) (string, error) {
	cnpj := NormalizeOrganizationTaxID(value)
	if len(cnpj) != cnpjLength || allSame(cnpj) {
		return "", ErrInvalidFormat
	}
	return value, nil
}

// NormalizePostalCode returns the CEP digits and whether there are exactly eight of them
func NormalizePostalCode(value string) (string, bool) {
	cep := OnlyDigits(value)
	return cep, len(cep) == cepLength
}
