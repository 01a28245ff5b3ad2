// Package numericvalidation checks numeric configuration values.
package numericvalidation

import (
	"fmt"
	"strconv"
)

// ValidatePositiveString parses value and requires it to be greater than zero.
func ValidatePositiveString(value string) error {
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed value: \"%s\": %w", value, err)
	}
	return ValidatePositiveInt64(i)
}

func ValidatePositiveInt64(value int64) error {
	if value <= 0 {
		return fmt.Errorf("value out of range: %d", value)
	}
	return nil
}

// ValidateNonNegativeString parses value and requires it to be zero or greater.
func ValidateNonNegativeString(value string) error {
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed value: \"%s\": %w", value, err)
	}
	return ValidateNonNegativeInt64(i)
}

func ValidateNonNegativeInt64(value int64) error {
	if value < 0 {
		return fmt.Errorf("value out of range: %d", value)
	}
	return nil
}
