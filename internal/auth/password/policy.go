package password

import (
	"strings"
	"unicode"

	autherror "github.com/ISanaSaki/inventory-api/internal/errors"
)

const minLength = 12

// commonWeak is matched case-insensitively against the whole password, not as
// a substring.
var commonWeak = map[string]struct{}{
	"password":     {},
	"12345678":     {},
	"qwerty":       {},
	"11111111":     {},
	"password1234": {},
	"letmein12345": {},
}

// Validate enforces the registration password policy. All rules must pass;
// the first broken rule is reported.
func Validate(plaintext string) error {
	if len(plaintext) < minLength {
		return autherror.NewPasswordPolicyError("password must be at least 12 characters long")
	}

	if _, weak := commonWeak[strings.ToLower(plaintext)]; weak {
		return autherror.NewPasswordPolicyError("password is too common or too weak")
	}

	var hasLetter, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		return autherror.NewPasswordPolicyError("password must contain at least one letter")
	}
	if !hasDigit {
		return autherror.NewPasswordPolicyError("password must contain at least one number")
	}

	return nil
}
