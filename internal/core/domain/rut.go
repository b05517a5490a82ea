package domain

import (
	"fmt"
	"strings"
)

// RUTLength is the length of a RUT without dots or dash: eight body digits
// followed by the check digit.
const RUTLength = 9

// RUTError reports a RUT whose check digit does not match its body.
type RUTError struct {
	RUT      string
	Provided string
	Expected string
	Reason   string
}

func (e *RUTError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid rut %q: %s", e.RUT, e.Reason)
	}
	return fmt.Sprintf("invalid rut %q: check digit is %s, expected %s", e.RUT, e.Provided, e.Expected)
}

func (e *RUTError) Unwrap() error { return ErrInvalidRUT }

// CheckDigit computes the modulo-11 check digit for the given body digits.
// The body is read right to left and weighted by the cycle 2,3,4,5,6,7.
func CheckDigit(body string) (string, error) {
	sum := 0
	for i := 0; i < len(body); i++ {
		c := body[len(body)-1-i]
		if c < '0' || c > '9' {
			return "", fmt.Errorf("non-digit %q in rut body", c)
		}
		sum += int(c-'0') * (i%6 + 2)
	}

	switch rest := 11 - sum%11; rest {
	case 11:
		return "0", nil
	case 10:
		return "k", nil
	default:
		return fmt.Sprintf("%d", rest), nil
	}
}

// ValidateRUT checks a 9-character RUT (body plus check digit, no separators).
// The check digit may be 0-9 or k, in either case.
func ValidateRUT(rut string) error {
	if len(rut) != RUTLength {
		return &RUTError{RUT: rut, Reason: fmt.Sprintf("must be %d characters long", RUTLength)}
	}

	expected, err := CheckDigit(rut[:RUTLength-1])
	if err != nil {
		return &RUTError{RUT: rut, Reason: err.Error()}
	}

	provided := strings.ToLower(rut[RUTLength-1:])
	if provided != expected {
		return &RUTError{RUT: rut, Provided: provided, Expected: expected}
	}
	return nil
}
