package session

import "strings"

type PathClass int

const (
	Public PathClass = iota
	Protected
	AuthOnly
)

func (p PathClass) String() string {
	switch p {
	case Protected:
		return "protected"
	case AuthOnly:
		return "auth_only"
	default:
		return "public"
	}
}

var (
	ProtectedPrefixes = []string{"/courses", "/api/videos", "/api/courses"}
	AuthOnlyPrefixes  = []string{"/login", "/signup"}
)

// Classify matches by plain prefix, so "/courses-archive" is protected too.
func Classify(path string) PathClass {
	if hasAnyPrefix(path, ProtectedPrefixes) {
		return Protected
	}
	if hasAnyPrefix(path, AuthOnlyPrefixes) {
		return AuthOnly
	}
	return Public
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
