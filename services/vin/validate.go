package vin

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidVIN = errors.New("invalid VIN format, must be 17 characters (no I, O, Q)")

var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// ValidateVIN upper-cases and trims vin and checks the 17 character format.
func ValidateVIN(vin string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(vin))
	if !vinPattern.MatchString(v) {
		return "", ErrInvalidVIN
	}
	return v, nil
}
