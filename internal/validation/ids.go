package validation

import (
	"fmt"
	"regexp"
)

// UserIDPattern defines the accepted user id format.
// User ids are the numeric athlete ids issued by the platform.
var UserIDPattern = regexp.MustCompile(`^[0-9]{1,20}$`)

// GearIDPattern defines the accepted gear id format.
// Bikes are prefixed with "b", shoes with "g", followed by a numeric id.
var GearIDPattern = regexp.MustCompile(`^[bg][0-9]{1,20}$`)

// ValidateUserID checks that userID is a plausible platform athlete id
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	if !UserIDPattern.MatchString(userID) {
		return fmt.Errorf("user id must be numeric")
	}

	return nil
}

// ValidateGearID checks that gearID is a plausible platform gear id
func ValidateGearID(gearID string) error {
	if gearID == "" {
		return fmt.Errorf("gear id cannot be empty")
	}

	if !GearIDPattern.MatchString(gearID) {
		return fmt.Errorf("gear id must start with 'b' or 'g' followed by digits")
	}

	return nil
}
