package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bruneval/modup/pkg/errors"
	"github.com/bruneval/modup/pkg/logging"
	"github.com/bruneval/modup/pkg/verbose"
	"github.com/bruneval/modup/pkg/version"
)

// DefaultBaseURL is the public mod database.
const DefaultBaseURL = "https://mods.vintagestory.at"

const (
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = 1500 * time.Millisecond
)

// userAgents is rotated across requests so the database does not throttle
// the client as a bot.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:70.0) Gecko/20100101 Firefox/70.0",
	"Mozilla/5.0 (Windows NT 6.1; WOW64; rv:56.0) Gecko/20100101 Firefox/56.0",
	"Mozilla/5.0 (Windows NT 6.1; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36",
}

// Options configures the HTTP catalog client.
//
// Fields:
//   - BaseURL: Catalog root, DefaultBaseURL when empty
//   - Timeout: Per-request deadline, 10s when zero
//   - Retries: Total attempts for metadata queries, 3 when zero
//   - RetryDelay: Flat delay between attempts, 1.5s when zero
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// HTTPClient is the Client implementation backed by the mod database API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
}

// NewHTTPClient builds an HTTPClient with defaults applied to zero options.
//
// Parameters:
//   - opts: Client options, zero values fall back to package defaults
//
// Returns:
//   - *HTTPClient: The configured client
func NewHTTPClient(opts Options) *HTTPClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// modEnvelope is the API shape of GET /api/mod/{id}.
//
// The database reports its own status as a string inside the JSON body,
// separate from the HTTP status.
type modEnvelope struct {
	StatusCode string `json:"statuscode"`
	Mod        struct {
		Name     string    `json:"name"`
		AssetID  int       `json:"assetid"`
		Side     string    `json:"side"`
		Releases []Release `json:"releases"`
	} `json:"mod"`
}

// gameVersionsEnvelope is the API shape of GET /api/gameversions.
type gameVersionsEnvelope struct {
	GameVersions []struct {
		Name string `json:"name"`
	} `json:"gameversions"`
}

// FetchReleases returns the catalog listing for a mod.
//
// It performs the following operations:
//   - Step 1: Queries /api/mod/{id} with bounded retries
//   - Step 2: Classifies transport failures as unreachable, 404 and
//     body statuscode != 200 as not-found
//   - Step 3: Decodes the listing and builds the mod's page URL
//
// Parameters:
//   - ctx: Context for cancellation
//   - modID: Catalog identifier to query
//
// Returns:
//   - *Listing: The mod's catalog record
//   - error: CatalogUnreachableError or ModNotFoundError on failure
func (c *HTTPClient) FetchReleases(ctx context.Context, modID string) (*Listing, error) {
	l := logging.Logger("catalog")
	endpoint := c.baseURL + "/api/mod/" + url.PathEscape(modID)

	status, body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, &errors.CatalogUnreachableError{ModID: modID, Err: err}
	}
	if status == http.StatusNotFound {
		return nil, &errors.ModNotFoundError{ModID: modID}
	}
	if status != http.StatusOK {
		return nil, &errors.CatalogUnreachableError{ModID: modID, Err: fmt.Errorf("status %d", status)}
	}

	var envelope modEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &errors.CatalogUnreachableError{ModID: modID, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if envelope.StatusCode != "200" {
		return nil, &errors.ModNotFoundError{ModID: modID}
	}

	listing := &Listing{
		ModID:    modID,
		Name:     envelope.Mod.Name,
		AssetID:  envelope.Mod.AssetID,
		Side:     envelope.Mod.Side,
		Releases: envelope.Mod.Releases,
	}
	if envelope.Mod.AssetID != 0 {
		listing.URL = fmt.Sprintf("%s/show/mod/%d", c.baseURL, envelope.Mod.AssetID)
	}

	verbose.CatalogQuery(modID, len(listing.Releases))
	l.Debug().Str("mod", modID).Int("releases", len(listing.Releases)).Msg("listing fetched")
	return listing, nil
}

// LatestStablePlatform returns the newest non-pre-release game version.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - version.Version: The newest stable game version the catalog lists
//   - error: If the endpoint is unreachable or lists no stable version
func (c *HTTPClient) LatestStablePlatform(ctx context.Context) (version.Version, error) {
	status, body, err := c.get(ctx, c.baseURL+"/api/gameversions")
	if err != nil {
		return version.Version{}, fmt.Errorf("failed to fetch game versions: %w", err)
	}
	if status != http.StatusOK {
		return version.Version{}, fmt.Errorf("game versions endpoint returned status %d", status)
	}

	var envelope gameVersionsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return version.Version{}, fmt.Errorf("malformed game versions response: %w", err)
	}

	parsed := make([]version.Version, 0, len(envelope.GameVersions))
	for _, gv := range envelope.GameVersions {
		v, parseErr := version.Parse(gv.Name)
		if parseErr != nil {
			continue
		}
		parsed = append(parsed, v)
	}

	newest, ok := version.Newest(parsed, false)
	if !ok {
		return version.Version{}, fmt.Errorf("catalog lists no stable game version")
	}

	l := logging.Logger("catalog")
	l.Debug().Str("platform", newest.String()).Msg("latest stable game version resolved")
	return newest, nil
}

// FetchArtifact streams one release artifact into dst.
//
// A single attempt is made; the caller owns the retry loop. Failures
// carry the transient flag so the caller knows which are worth retrying.
//
// Parameters:
//   - ctx: Context for cancellation
//   - artifactURL: Absolute URL of the artifact
//   - dst: Destination the response body is streamed into
//
// Returns:
//   - int64: Bytes written to dst
//   - error: FetchError classifying the failure
func (c *HTTPClient) FetchArtifact(ctx context.Context, artifactURL string, dst io.Writer) (int64, error) {
	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return 0, &errors.FetchError{URL: artifactURL, Err: err}
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &errors.FetchError{URL: artifactURL, Transient: true, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		return 0, &errors.FetchError{URL: artifactURL, StatusCode: resp.StatusCode, Transient: true}
	default:
		return 0, &errors.FetchError{URL: artifactURL, StatusCode: resp.StatusCode}
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, &errors.FetchError{URL: artifactURL, Transient: true, Err: err}
	}
	return n, nil
}

// get performs a metadata GET with bounded retries and a flat delay.
//
// Transport errors and 5xx responses are retried; any other response is
// returned to the caller for classification.
//
// Parameters:
//   - ctx: Context for cancellation
//   - rawURL: URL to query
//
// Returns:
//   - int: HTTP status of the last response
//   - []byte: Response body of the last response
//   - error: Last transport error when every attempt failed on transport
func (c *HTTPClient) get(ctx context.Context, rawURL string) (int, []byte, error) {
	l := logging.Logger("catalog")

	var lastStatus int
	var lastBody []byte
	var lastErr error

	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		status, body, err := c.getOnce(ctx, rawURL)
		if err == nil && status < http.StatusInternalServerError {
			return status, body, nil
		}

		lastStatus, lastBody, lastErr = status, body, err
		l.Warn().Str("url", rawURL).Int("attempt", attempt).Int("max", c.retries).Err(err).Msg("catalog request failed")
	}

	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

// getOnce performs a single GET and reads the full response body.
func (c *HTTPClient) getOnce(ctx context.Context, rawURL string) (int, []byte, error) {
	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// decorate applies the rotating browser headers the database expects.
func (c *HTTPClient) decorate(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
}
