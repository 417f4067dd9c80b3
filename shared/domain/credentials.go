package domain

import (
	"regexp"
	"strings"
)

// MaxPasswordBytes is the longest password bcrypt accepts. The limit is in
// bytes, not characters.
const MaxPasswordBytes = 72

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N}_.-]*$`)

// Usernames share the first path segment with these routes.
var reservedUsernames = map[string]bool{
	"users":        true,
	"posts":        true,
	"tags":         true,
	"comments":     true,
	"register":     true,
	"login":        true,
	"logout":       true,
	"confirmation": true,
	"user_confirm": true,
	"upload":       true,
	"image":        true,
	"avatar":       true,
	"health":       true,
	"ready":        true,
	"metrics":      true,
}

// UsernameProblem explains why name cannot be used as a username, or returns
// "" when it can.
func UsernameProblem(name Username) string {
	switch {
	case name == "":
		return "This field is required"
	case !usernamePattern.MatchString(name):
		return "Must start with a letter or digit and contain only letters, digits, '_', '-' and '.'"
	case reservedUsernames[strings.ToLower(name)]:
		return "This username is reserved"
	}
	return ""
}

// PasswordTooLong reports whether bcrypt would refuse the password.
func PasswordTooLong(password Password) bool {
	return len(password) > MaxPasswordBytes
}
