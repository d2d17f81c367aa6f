package validators

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var validCPFs = []string{"52998224725", "11144477735"}

func TestValidatePersonTaxID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid digits", "52998224725", false},
		{"Valid formatted", "529.982.247-25", false},
		{"Valid second", "111.444.777-35", false},
		{"Wrong first check digit", "52998224715", true},
		{"Wrong second check digit", "52998224726", true},
		{"Too short", "5299822472", true},
		{"Too long", "529982247250", true},
		{"Empty", "", true},
		{"Letters only", "abc.def.ghi-jk", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePersonTaxID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestValidatePersonTaxIDGenerated(t *testing.T) {
	for _, prefix := range []string{"123456789", "987654321", "000000001", "246813579", "314159265"} {
		first := cpfCheckDigit(prefix+"00", 9)
		withFirst := fmt.Sprintf("%s%d", prefix, first)
		second := cpfCheckDigit(withFirst+"0", 10)
		cpf := fmt.Sprintf("%s%d", withFirst, second)

		_, err := ValidatePersonTaxID(cpf)
		assert.NoError(t, err, cpf)
	}
}

func TestValidatePersonTaxIDRejectsSingleDigitCorruption(t *testing.T) {
	for _, cpf := range validCPFs {
		for pos := 0; pos < len(cpf); pos++ {
			for delta := 1; delta <= 9; delta++ {
				b := []byte(cpf)
				b[pos] = byte('0' + (int(b[pos]-'0')+delta)%10)
				corrupted := string(b)

				_, err := ValidatePersonTaxID(corrupted)
				assert.ErrorIs(t, err, ErrInvalidFormat, "corrupted %s -> %s", cpf, corrupted)
			}
		}
	}
}

func TestValidatePersonTaxIDRejectsRepeatedDigits(t *testing.T) {
	for d := 0; d <= 9; d++ {
		cpf := strings.Repeat(fmt.Sprint(d), 11)
		_, err := ValidatePersonTaxID(cpf)
		assert.ErrorIs(t, err, ErrInvalidFormat, cpf)
	}
}

func TestValidateIdentityDocument(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"12.345.678-9", false},
		{"1234567", false},
		{"12.345.678-X", false},
		{"12345678x", false},
		{"123456", true},
		{"1234567890", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateIdentityDocument(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestValidateOrganizationTaxID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"12.345.678/0001-90", false},
		{"11222333000181", false},
		// check digits are not verified
		{"12345678000100", false},
		{"11111111111111", true},
		{"1234567800019", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ValidateOrganizationTaxID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizePostalCode(t *testing.T) {
	cep, ok := NormalizePostalCode("01001-000")
	assert.True(t, ok)
	assert.Equal(t, "01001000", cep)

	_, ok = NormalizePostalCode("123")
	assert.False(t, ok)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "123", FormatCPF("123"))
	assert.Equal(t, "12.345.678/0001-90", FormatCNPJ("12345678000190"))
	assert.Equal(t, "12.345.678-X", FormatRG("12345678x"))
	assert.Equal(t, "1234567", FormatRG("1234567"))
	assert.Equal(t, "01001-000", FormatCEP("01001000"))
}
