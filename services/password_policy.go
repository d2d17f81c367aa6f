package services

import (
	"fmt"
	"unicode"
)

// Password requirements
const (
	MinPasswordLength = 12
)

// PasswordProblems lists every complexity rule the password breaks:
// at least 12 characters with an uppercase letter, a lowercase letter,
// a number and a special character.
func PasswordProblems(password string) []string {
	var problems []string
	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", MinPasswordLength))
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		problems = append(problems, "A senha deve conter ao menos uma letra maiúscula.")
	}
	if !hasLower {
		problems = append(problems, "A senha deve conter ao menos uma letra minúscula.")
	}
	if !hasNumber {
		problems = append(problems, "A senha deve conter ao menos um número.")
	}
	if !hasSpecial {
		problems = append(problems, "A senha deve conter ao menos um caractere especial.")
	}
	return problems
}
