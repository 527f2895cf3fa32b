package disttag

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Remove deletes tag from pkg. Removing a tag the package does not have
// is an error, as is removing "latest" (the write is rejected).
func (c *Command) Remove(ctx context.Context, tag, pkg string) error {
	log := c.logger().WithFields(logrus.Fields{"package": pkg, "tag": tag})
	log.Debugf("dist-tag del %s from %s", tag, pkg)

	if tag == "" || pkg == "" {
		return &UsageError{Usage: "Usage:\n" + Usage}
	}

	tags, err := c.Store.FetchTags(ctx, pkg)
	if err != nil {
		return err
	}
	tags = tags.Clone()

	version, ok := tags[tag]
	if !ok {
		log.Infof("dist-tag del %s is not a dist-tag on %s", tag, pkg)
		return &NotATagError{Tag: tag, Name: pkg}
	}
	delete(tags, tag)

	if _, err := c.Store.PutTags(ctx, pkg, tags); err != nil {
		return err
	}

	fmt.Fprintf(c.out(), "-%s: %s@%s\n", tag, pkg, version)
	return nil
}
