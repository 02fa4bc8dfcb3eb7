package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dunterov/aws-csv-to-confluence/internal/confluence"
	"github.com/dunterov/aws-csv-to-confluence/internal/csv"
	"github.com/dunterov/aws-csv-to-confluence/internal/inventory"
	"github.com/dunterov/aws-csv-to-confluence/internal/publisher"
	"github.com/dunterov/aws-csv-to-confluence/internal/s3"
)

// InitializeLogger builds the process logger. The debug level selects the
// development encoder; anything else gets production JSON.
func InitializeLogger(c *Config) (*zap.Logger, error) {
	if strings.EqualFold(c.Global.Logger.Level, "debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// OpenInventory opens the configured inventory document, from S3 when the
// file is an s3:// URL, from local disk otherwise.
func OpenInventory(ctx context.Context, c *Config, logger *zap.Logger) (io.ReadCloser, error) {
	file := c.Sync.Inventory.File
	if !strings.HasPrefix(file, "s3://") {
		return os.Open(file)
	}

	fetcher, err := s3.New(
		s3.WithRegion(c.Sync.S3.Region),
		s3.WithEndpoint(c.Sync.S3.Endpoint),
		s3.WithForcePathStyle(c.Sync.S3.ForcePathStyle),
		s3.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return fetcher.Fetch(ctx, file)
}

// InitializePublisher wires one sync run: the record source over r, the
// wiki client, the resolved parent page, and the publisher on top. The
// source's header validation runs before the first remote call.
func InitializePublisher(ctx context.Context, c *Config, r io.Reader, logger *zap.Logger, runStart time.Time) (*publisher.Publisher, error) {
	source, err := csv.NewSource(r, csv.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	client, err := confluence.New(
		c.Sync.Confluence.URL,
		c.Sync.Confluence.Username,
		c.Sync.Confluence.Token,
		confluence.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	parentID, err := resolveParent(ctx, c, client)
	if err != nil {
		return nil, err
	}

	filter := inventory.NewFilter(
		inventory.WithIgnoreGroups(c.Sync.Inventory.IgnoreGroups),
		inventory.WithIgnoreResourceTypes(c.Sync.Inventory.IgnoreResourceTypes),
		inventory.WithLogger(logger),
	)

	return publisher.New(
		publisher.WithLogger(logger),
		publisher.WithSource(source),
		publisher.WithFilter(filter),
		publisher.WithWiki(client),
		publisher.WithParent(parentID),
		publisher.WithSubtitle(c.Sync.Inventory.Subtitle),
		publisher.WithClean(c.Sync.Clean),
		publisher.WithSourceName(c.Sync.Inventory.File),
		publisher.WithRunStart(runStart),
	), nil
}

// resolveParent turns the configured parent into a page id. Both styles
// read the page remotely, which validates it exists and warms the client's
// space cache for later creates.
func resolveParent(ctx context.Context, c *Config, client *confluence.Client) (string, error) {
	conf := c.Sync.Confluence

	if conf.ParentID != "" {
		page, err := client.GetPage(ctx, conf.ParentID)
		if err != nil {
			return "", fmt.Errorf("resolving parent page %s: %w", conf.ParentID, err)
		}
		return page.ID, nil
	}

	page, err := client.FindPageBySpaceTitle(ctx, conf.ParentSpace, conf.ParentTitle)
	if err != nil {
		return "", fmt.Errorf("resolving parent page %q in space %s: %w", conf.ParentTitle, conf.ParentSpace, err)
	}
	if page == nil {
		return "", fmt.Errorf("parent page %q not found in space %s", conf.ParentTitle, conf.ParentSpace)
	}
	return page.ID, nil
}
