package client

import (
	"fmt"
	"net/url"
	"strings"
)

// EscapeName escapes a package name for use as a registry path segment.
// Only the scope separator is escaped: "@babel/core" becomes "@babel%2fcore".
func EscapeName(name string) string {
	return strings.Replace(name, "/", "%2f", 1)
}

// NormalizeRegistry checks that registry is an absolute http(s) URL and
// returns it with a trailing slash.
func NormalizeRegistry(registry string) (string, error) {
	u, err := url.Parse(registry)
	if err != nil {
		return "", fmt.Errorf("invalid registry URL %q: %w", registry, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid registry URL %q: scheme must be http or https", registry)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid registry URL %q: missing host", registry)
	}
	if !strings.HasSuffix(registry, "/") {
		registry += "/"
	}
	return registry, nil
}

// JoinPath appends an already-escaped path to a registry base URL.
// The path is not re-escaped, so "%2f" in scoped names survives.
func JoinPath(registry, path string) string {
	return strings.TrimSuffix(registry, "/") + "/" + strings.TrimPrefix(path, "/")
}

// NerfDart returns the credential key for a registry URL: the URL without
// its scheme, query, or fragment, ending in a slash.
//
//	https://registry.npmjs.org/      -> //registry.npmjs.org/
//	https://npm.example.com/api/npm  -> //npm.example.com/api/npm/
func NerfDart(registry string) string {
	u, err := url.Parse(registry)
	if err != nil || u.Host == "" {
		return ""
	}
	path := u.EscapedPath()
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return "//" + u.Host + path
}
