package core

import (
	"fmt"
	"regexp"
	"strings"
)

const maxNameLength = 214

var namePattern = regexp.MustCompile(`^(?:@[a-z0-9~][a-z0-9._~-]*/)?[a-z0-9~][a-z0-9._~-]*$`)

// ParseSpec parses a package reference. Accepted forms:
//
//	react
//	react@18.3.1
//	@babel/core@7.24.0
//	pkg:npm/%40babel/core@7.24.0
//
// The version is whatever follows the name's "@"; it is not validated.
func ParseSpec(raw string) (Spec, error) {
	if strings.HasPrefix(raw, "pkg:") {
		return parsePURLSpec(raw)
	}

	name, version := raw, ""
	// Skip a leading scope "@" when looking for the version separator.
	if i := strings.Index(raw[min(1, len(raw)):], "@"); i >= 0 {
		i += min(1, len(raw))
		name, version = raw[:i], raw[i+1:]
	}

	if name != "" {
		if err := ValidateName(name); err != nil {
			return Spec{}, err
		}
	}
	return Spec{Name: name, Version: version, Raw: raw}, nil
}

// ValidateName checks a package name against the registry naming rules
// that matter for building request paths.
func ValidateName(name string) error {
	if len(name) > maxNameLength {
		return &ValidationError{Msg: fmt.Sprintf("Invalid package name %q: name can no longer contain more than %d characters", name, maxNameLength)}
	}
	if strings.TrimSpace(name) != name {
		return &ValidationError{Msg: fmt.Sprintf("Invalid package name %q: name cannot contain leading or trailing spaces", name)}
	}
	if !namePattern.MatchString(strings.ToLower(name)) {
		return &ValidationError{Msg: fmt.Sprintf("Invalid package name %q", name)}
	}
	return nil
}

// Scope returns the "@scope" part of a scoped package name, or "".
func Scope(name string) string {
	if !strings.HasPrefix(name, "@") {
		return ""
	}
	if i := strings.Index(name, "/"); i > 0 {
		return name[:i]
	}
	return ""
}
