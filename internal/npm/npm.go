// Package npm reads and writes dist-tags on npm-compatible registries.
package npm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/git-pkgs/disttag/client"
	"github.com/git-pkgs/disttag/internal/core"
)

// Registry reads and writes dist-tags through a Mapper-resolved endpoint.
type Registry struct {
	client *core.Client
	mapper *core.Mapper
	log    logrus.FieldLogger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// New returns a Registry that resolves packages through mapper. If c is
// nil, core.DefaultClient() is used.
func New(mapper *core.Mapper, c *core.Client, opts ...Option) *Registry {
	if c == nil {
		c = core.DefaultClient()
	}
	r := &Registry{
		client: c,
		mapper: mapper,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// fetchDocument resolves name and reads its registry document.
func (r *Registry) fetchDocument(ctx context.Context, name string) (*core.Document, core.Endpoint, error) {
	ep, err := r.mapper.Resolve(name)
	if err != nil {
		return nil, core.Endpoint{}, err
	}

	var doc core.Document
	if err := r.client.GetJSON(ctx, ep.URL, ep.Auth, &doc); err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, ep, &client.NotFoundError{Name: name}
		}
		return nil, ep, err
	}

	if len(doc.DistTags) == 0 {
		return nil, ep, &core.NoTagsError{Name: name}
	}
	return &doc, ep, nil
}

// FetchTags returns the current dist-tags of a package.
func (r *Registry) FetchTags(ctx context.Context, name string) (core.Tags, error) {
	doc, _, err := r.fetchDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	return doc.DistTags, nil
}

// PutTags replaces the full dist-tag set of a package and returns the raw
// registry response. The document is re-read first so the write carries
// the current revision; the package must already have dist-tags.
//
// tags must keep a "latest" entry.
func (r *Registry) PutTags(ctx context.Context, name string, tags core.Tags) ([]byte, error) {
	if err := checkWrite(name, tags); err != nil {
		return nil, err
	}

	current, ep, err := r.fetchDocument(ctx, name)
	if err != nil {
		return nil, err
	}

	doc := core.Document{
		ID:       current.ID,
		Rev:      current.Rev,
		DistTags: tags,
	}

	target := ep.Revision(current.Rev)
	body, err := r.client.PutJSON(ctx, target.URL, target.Auth, doc)
	if err == nil {
		err = embeddedError(body)
	}
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"package":  name,
			"registry": ep.Registry,
		}).Error("Failed to update package metadata")
		return body, err
	}
	return body, nil
}

func checkWrite(name string, tags core.Tags) error {
	switch {
	case name == "":
		return &core.ValidationError{Msg: "must pass name of package to PutTags", Err: core.ErrInvalidWrite}
	case tags == nil:
		return &core.ValidationError{Msg: "must pass tags to PutTags", Err: core.ErrInvalidWrite}
	}
	if _, ok := tags[core.LatestTag]; !ok {
		return &core.ValidationError{Msg: "must still have 'latest' tag set in PutTags", Err: core.ErrInvalidWrite}
	}
	return nil
}

// embeddedError reports an "error" member in a successful response body.
// Bodies that are not JSON objects carry no error.
func embeddedError(body []byte) error {
	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	if truthy(resp["error"]) {
		return &core.RegistryError{Body: string(body)}
	}
	return nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	}
	return true
}

