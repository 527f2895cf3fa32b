package core

import (
	"fmt"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

// parsePURLSpec turns an npm Package URL into a Spec.
// "pkg:npm/%40babel/core@7.24.0" becomes "@babel/core" at "7.24.0".
func parsePURLSpec(raw string) (Spec, error) {
	p, err := packageurl.FromString(raw)
	if err != nil {
		return Spec{}, &ValidationError{Msg: fmt.Sprintf("Invalid package URL %q", raw), Err: err}
	}
	if p.Type != packageurl.TypeNPM {
		return Spec{}, &ValidationError{Msg: fmt.Sprintf("Package URL %q is not an npm package", raw)}
	}

	name := p.Name
	if p.Namespace != "" {
		// packageurl-go keeps @ in namespace, but accept it without
		ns := p.Namespace
		if !strings.HasPrefix(ns, "@") {
			ns = "@" + ns
		}
		name = ns + "/" + p.Name
	}

	if err := ValidateName(name); err != nil {
		return Spec{}, err
	}
	return Spec{Name: name, Version: p.Version, Raw: raw}, nil
}
