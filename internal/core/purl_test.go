package core

import (
	"errors"
	"testing"
)

func TestParsePURLSpec(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantVer  string
		wantErr  bool
	}{
		{"pkg:npm/lodash", "lodash", "", false},
		{"pkg:npm/lodash@4.17.21", "lodash", "4.17.21", false},

		// npm scoped packages (packageurl-go keeps @ in namespace)
		{"pkg:npm/%40babel/core", "@babel/core", "", false},
		{"pkg:npm/%40babel/core@7.24.0", "@babel/core", "7.24.0", false},

		// Errors
		{"pkg:cargo/serde@1.0.0", "", "", true},
		{"pkg:", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spec, err := ParseSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSpec(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("ParseSpec(%q) error = %T, want *ValidationError", tt.input, err)
				}
				return
			}

			if spec.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", spec.Name, tt.wantName)
			}
			if spec.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", spec.Version, tt.wantVer)
			}
			if spec.Raw != tt.input {
				t.Errorf("Raw = %q, want %q", spec.Raw, tt.input)
			}
		})
	}
}
