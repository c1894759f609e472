package domain

import "strings"

// ValidEmail applies the subscription form check: the address must contain
// "@" and ".com".
func ValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".com")
}
