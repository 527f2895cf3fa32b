// Package core provides the shared dist-tag types, errors, package spec
// parsing, and registry endpoint resolution.
package core

import (
	"fmt"
	"sort"
)

// LatestTag is the tag every persisted tag set must keep.
const LatestTag = "latest"

// Tags maps dist-tag names to versions.
type Tags map[string]string

// Clone returns a copy of t that can be mutated independently. The copy
// is never nil.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Lines formats each entry as "<tag>: <version>" and sorts the formatted
// lines.
func (t Tags) Lines() []string {
	lines := make([]string, 0, len(t))
	for tag, version := range t {
		lines = append(lines, fmt.Sprintf("%s: %s", tag, version))
	}
	sort.Strings(lines)
	return lines
}

// Document is the subset of a registry package document this module reads
// and writes back.
type Document struct {
	ID       string `json:"_id"`
	Rev      string `json:"_rev"`
	DistTags Tags   `json:"dist-tags"`
}

// Spec is a parsed package reference such as "react@18.3.1".
type Spec struct {
	Name    string
	Version string // empty when the spec names no version
	Raw     string
}

func (s Spec) String() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}
