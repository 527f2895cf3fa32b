package disttag

import (
	"context"
	"fmt"
	"strings"

	"github.com/git-pkgs/disttag/internal/manifest"
)

// List prints the dist-tags of pkg as sorted "<tag>: <version>" lines and
// returns them. With no pkg, the name is read from package.json in c.Dir.
func (c *Command) List(ctx context.Context, pkg string) (Tags, error) {
	if pkg == "" {
		dir := c.Dir
		if dir == "" {
			dir = "."
		}
		name, err := manifest.ReadName(dir)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, &UsageError{Usage: Usage}
		}
		pkg = name
	}

	tags, err := c.Store.FetchTags(ctx, pkg)
	if err != nil {
		c.logger().WithField("package", pkg).Errorf("dist-tag ls Couldn't get dist-tag data for %s", pkg)
		return nil, err
	}

	fmt.Fprintln(c.out(), strings.Join(tags.Lines(), "\n"))
	return tags, nil
}
