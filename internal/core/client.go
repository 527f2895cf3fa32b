package core

import (
	"github.com/git-pkgs/disttag/client"
)

// Type aliases so registry implementations only import core.
type (
	Client = client.Client
	Option = client.Option
	Auth   = client.Auth
)

// Function aliases.
var (
	DefaultClient  = client.DefaultClient
	NewClient      = client.NewClient
	WithTimeout    = client.WithTimeout
	WithMaxRetries = client.WithMaxRetries
	WithUserAgent  = client.WithUserAgent
)
