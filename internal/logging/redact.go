package logging

import "strings"

// sensitiveKeyParts are matched case-insensitively against attribute keys.
var sensitiveKeyParts = []string{
	"token",
	"secret",
	"password",
	"credential",
	"authorization",
	"api_key",
}

// tokenPrefixes mark a value as sensitive regardless of its key.
var tokenPrefixes = []string{
	"ghp_",
	"gho_",
	"ghs_",
	"Basic ",
	"Bearer ",
}

// ShouldMask reports whether values logged under key must be masked.
func ShouldMask(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether value starts with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// MaskValue hides all but the last four characters of value.
// Values of four characters or fewer are fully masked.
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}
