package model

import (
	"regexp"
	"strings"
)

var businessIDPattern = regexp.MustCompile(`^\d{7}-\d$`)

var businessIDWeights = [7]int{7, 9, 10, 5, 8, 4, 2}

// ValidBusinessID checks the format (1234567-8) and the mod 11 check digit
// of a Finnish business id. A remainder of 1 is never valid.
func ValidBusinessID(id string) bool {
	if !businessIDPattern.MatchString(id) {
		return false
	}
	sum := 0
	for i, w := range businessIDWeights {
		sum += int(id[i]-'0') * w
	}
	remainder := sum % 11
	if remainder == 1 {
		return false
	}
	check := 0
	if remainder != 0 {
		check = 11 - remainder
	}
	return int(id[8]-'0') == check
}

// NormalizeBusinessID trims whitespace and pads a seven-digit body that lost
// its leading zero, e.g. "112038-9" becomes "0112038-9".
func NormalizeBusinessID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) == 8 && id[6] == '-' {
		id = "0" + id
	}
	return id
}
