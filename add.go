package disttag

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/git-pkgs/disttag/internal/core"
)

// Add points tag at the version named by spec ("name@version"). An empty
// tag means c.DefaultTag. The tag set is written back even when the tag
// already points at that version.
func (c *Command) Add(ctx context.Context, spec, tag string) error {
	parsed, err := core.ParseSpec(spec)
	if err != nil {
		return err
	}
	name, version := parsed.Name, parsed.Version
	if tag == "" {
		tag = c.DefaultTag
	}
	tag = strings.TrimSpace(tag)

	log := c.logger().WithFields(logrus.Fields{"package": name, "version": version, "tag": tag})
	log.WithField("spec", parsed.Raw).Debugf("dist-tag add %s to %s@%s", tag, name, version)

	if name == "" || version == "" || tag == "" {
		return &UsageError{Usage: "Usage:\n" + Usage}
	}

	if validRange(tag) {
		return &ValidationError{Msg: "Tag name must not be a valid SemVer range: " + tag}
	}

	tags, err := c.Store.FetchTags(ctx, name)
	if err != nil {
		return err
	}
	tags = tags.Clone()

	if tags[tag] == version {
		log.Warnf("dist-tag add %s is already set to version %s", tag, version)
	}
	tags[tag] = version

	if _, err := c.Store.PutTags(ctx, name, tags); err != nil {
		return err
	}

	fmt.Fprintf(c.out(), "+%s: %s@%s\n", tag, name, version)
	return nil
}

// validRange reports whether s parses as a semver range such as "1.2.3",
// ">=1.0.0 <2.0.0" or "1.x". Such names would be read as ranges, not tags.
func validRange(s string) bool {
	_, err := semver.NewConstraint(s)
	return err == nil
}
