package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/bruneval/modup/pkg/catalog"
	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/version"
)

// FakeCatalog is an in-memory catalog client for command tests.
//
// Listings, artifacts, and the platform version are seeded up front;
// unknown mods answer ModNotFoundError and unknown artifact URLs a
// permanent FetchError, matching the real client's classification.
// All methods are safe for concurrent use.
type FakeCatalog struct {
	mu sync.Mutex

	listings  map[string]*catalog.Listing
	artifacts map[string][]byte
	platform  version.Version

	fetchErrs map[string]error
	queries   map[string]int
}

// NewFakeCatalog creates an empty fake catalog with platform version 1.20.0.
//
// Returns:
//   - *FakeCatalog: Fake ready to be seeded via AddListing and AddArtifact
func NewFakeCatalog() *FakeCatalog {
	platform, _ := version.Parse("1.20.0")
	return &FakeCatalog{
		listings:  make(map[string]*catalog.Listing),
		artifacts: make(map[string][]byte),
		platform:  platform,
		fetchErrs: make(map[string]error),
		queries:   make(map[string]int),
	}
}

// AddListing seeds the catalog's record for a mod.
//
// Parameters:
//   - modID: Identifier the listing answers for
//   - releases: Published releases, any order
func (c *FakeCatalog) AddListing(modID string, releases ...catalog.Release) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[modID] = &catalog.Listing{
		ModID:    modID,
		Name:     modID,
		Side:     "universal",
		Releases: releases,
	}
}

// AddArtifact seeds the downloadable content for an artifact URL.
//
// Parameters:
//   - url: Artifact URL a release's MainFile points at
//   - data: Bytes served for that URL
func (c *FakeCatalog) AddArtifact(url string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts[url] = data
}

// FailFetch makes fetches of an artifact URL answer the given error.
//
// Parameters:
//   - url: Artifact URL to poison
//   - err: Error returned for that URL
func (c *FakeCatalog) FailFetch(url string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchErrs[url] = err
}

// SetPlatform overrides the platform version answered by LatestStablePlatform.
//
// Parameters:
//   - v: Game version string, must parse
func (c *FakeCatalog) SetPlatform(v string) {
	parsed, err := version.Parse(v)
	if err != nil {
		panic(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.platform = parsed
}

// QueryCount returns how many times a mod's listing was fetched.
//
// Parameters:
//   - modID: Identifier to count queries for
//
// Returns:
//   - int: Number of FetchReleases calls for that mod
func (c *FakeCatalog) QueryCount(modID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries[modID]
}

// FetchReleases implements catalog.Client.
func (c *FakeCatalog) FetchReleases(ctx context.Context, modID string) (*catalog.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queries[modID]++
	listing, ok := c.listings[modID]
	if !ok {
		return nil, &errors.ModNotFoundError{ModID: modID}
	}
	return listing, nil
}

// LatestStablePlatform implements catalog.Client.
func (c *FakeCatalog) LatestStablePlatform(ctx context.Context) (version.Version, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.platform, nil
}

// FetchArtifact implements catalog.Client.
func (c *FakeCatalog) FetchArtifact(ctx context.Context, artifactURL string, dst io.Writer) (int64, error) {
	c.mu.Lock()
	data, ok := c.artifacts[artifactURL]
	err := c.fetchErrs[artifactURL]
	c.mu.Unlock()

	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &errors.FetchError{URL: artifactURL, StatusCode: 404, Transient: false}
	}
	n, writeErr := dst.Write(data)
	return int64(n), writeErr
}

// StableRelease builds a release tagged for the given game versions.
//
// Parameters:
//   - modVersion: Version the release is published under
//   - mainFile: Artifact URL for the release
//   - tags: Game versions the release supports
//
// Returns:
//   - catalog.Release: The release record
func StableRelease(modVersion, mainFile string, tags ...string) catalog.Release {
	return catalog.Release{
		ModVersion: modVersion,
		MainFile:   mainFile,
		Tags:       tags,
	}
}
