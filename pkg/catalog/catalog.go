// Package catalog talks to the mod database API.
//
// The Client interface is the only catalog surface the rest of the
// application sees; the HTTP implementation lives in this package and a
// canned implementation lives in pkg/testutil. Catalog failures are
// classified, never fatal: an unreachable catalog or an unlisted mod
// downgrades the affected mod to local-only and the run continues.
package catalog

import (
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/bruneval/modup/pkg/version"
)

var (
	htmlBreakRegex = regexp.MustCompile(`(?i)<\s*(br\s*/?|/p|/li|/h[1-6])\s*>`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	blankRunRegex  = regexp.MustCompile(`\n{3,}`)
)

// Release is one published release of a mod as listed by the catalog.
//
// Fields:
//   - ModVersion: Version string the author published the release under
//   - Tags: Game versions the release declares support for
//   - MainFile: Download path of the release artifact
//   - Changelog: Release notes as HTML, may be empty
//   - Created: Creation timestamp string as reported by the catalog
type Release struct {
	ModVersion string   `json:"modversion"`
	Tags       []string `json:"tags"`
	MainFile   string   `json:"mainfile"`
	Changelog  string   `json:"changelog"`
	Created    string   `json:"created"`
}

// RequiredPlatform returns the release's required game version.
//
// The requirement is the highest parseable tag: a release tagged for
// several game versions runs on all of them, so the newest tag is the
// version the author last verified against.
//
// Returns:
//   - version.Version: The highest parseable tag
//   - bool: false when no tag parses
func (r Release) RequiredPlatform() (version.Version, bool) {
	parsed := make([]version.Version, 0, len(r.Tags))
	for _, tag := range r.Tags {
		v, err := version.Parse(tag)
		if err != nil {
			continue
		}
		parsed = append(parsed, v)
	}
	return version.Newest(parsed, true)
}

// ChangelogText returns the release notes as plain text.
//
// It performs the following operations:
//   - Replaces tags that imply a line break with newlines
//   - Strips all remaining HTML tags
//   - Unescapes HTML entities
//   - Collapses runs of blank lines and trims the result
//
// Returns:
//   - string: Plain-text release notes, empty when no changelog exists
func (r Release) ChangelogText() string {
	if r.Changelog == "" {
		return ""
	}
	text := htmlBreakRegex.ReplaceAllString(r.Changelog, "\n")
	text = htmlTagRegex.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Listing is the catalog's record for one mod.
//
// Fields:
//   - ModID: Identifier the listing was fetched for
//   - Name: Display name as listed
//   - AssetID: Database asset number, used to build the mod's page URL
//   - Side: Declared game side
//   - URL: Browser URL of the mod's database page
//   - Releases: Published releases, newest ordering not guaranteed
type Listing struct {
	ModID    string
	Name     string
	AssetID  int
	Side     string
	URL      string
	Releases []Release
}

// Client is the catalog surface used by planning and execution.
//
// Implementations classify failures: transport problems surface as
// CatalogUnreachableError, an unlisted mod as ModNotFoundError, and
// artifact failures as FetchError with the transient flag set for
// retryable conditions.
type Client interface {
	// FetchReleases returns the catalog listing for a mod.
	FetchReleases(ctx context.Context, modID string) (*Listing, error)

	// LatestStablePlatform returns the newest non-pre-release game version.
	LatestStablePlatform(ctx context.Context) (version.Version, error)

	// FetchArtifact streams one release artifact into dst.
	FetchArtifact(ctx context.Context, artifactURL string, dst io.Writer) (int64, error)
}
