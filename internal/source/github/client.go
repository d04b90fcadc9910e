package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/GooGuTeam/g0v0-client-versions/internal/logger"
	"github.com/GooGuTeam/g0v0-client-versions/internal/source"
)

const (
	// DefaultBaseURL points at the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	// apiVersion is sent with every request per GitHub API guidance.
	apiVersion = "2022-11-28"

	// releasesPerPage is the page size used when walking the release list.
	releasesPerPage = 100
)

// Options configures the GitHub release source.
type Options struct {
	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string
	// Token is the bearer token for authenticated requests. Optional,
	// but unauthenticated requests are heavily rate limited.
	Token string
	// Timeout bounds every HTTP request.
	Timeout time.Duration
	// UserAgent identifies the tool to the API.
	UserAgent string
}

// Client implements source.Source against the GitHub releases REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
}

// NewClient creates a GitHub release source with the provided options.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "g0v0-client-versions"
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      opts.Token,
		userAgent:  userAgent,
	}
}

// releaseJSON mirrors the fields of the REST release object we consume.
type releaseJSON struct {
	TagName     string      `json:"tag_name"`
	Name        string      `json:"name"`
	Draft       bool        `json:"draft"`
	Prerelease  bool        `json:"prerelease"`
	PublishedAt string      `json:"published_at"`
	Assets      []assetJSON `json:"assets"`
}

type assetJSON struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// ListRecentReleases walks the paged release list newest first until it
// has seen count non-prerelease releases or the list is exhausted.
// Prereleases encountered along the way are included in the result but
// do not advance the count; drafts are skipped entirely.
func (c *Client) ListRecentReleases(ctx context.Context, owner, repo string, count int) ([]source.Release, error) {
	var (
		releases []source.Release
		counted  int
	)

	for page := 1; counted < count; page++ {
		pageReleases, err := c.fetchReleasePage(ctx, owner, repo, page)
		if err != nil {
			return nil, err
		}

		if len(pageReleases) == 0 {
			break
		}

		for _, release := range pageReleases {
			if release.Draft {
				continue
			}

			releases = append(releases, convertRelease(release))

			if !release.Prerelease {
				counted++
			}

			if counted >= count {
				break
			}
		}
	}

	return releases, nil
}

// fetchReleasePage retrieves one page of the release list.
func (c *Client) fetchReleasePage(ctx context.Context, owner, repo string, page int) ([]releaseJSON, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(releasesPerPage))
	query.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build releases request: %w", err)
	}

	c.setHeaders(req)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list releases %s/%s: %w", owner, repo, err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list releases %s/%s: unexpected status %s", owner, repo, resp.Status)
	}

	var pageReleases []releaseJSON
	if err := json.NewDecoder(resp.Body).Decode(&pageReleases); err != nil {
		return nil, fmt.Errorf("decode releases %s/%s: %w", owner, repo, err)
	}

	return pageReleases, nil
}

// FetchAsset downloads the raw bytes of the named release asset.
func (c *Client) FetchAsset(ctx context.Context, release source.Release, assetName string) ([]byte, error) {
	downloadURL, ok := release.Assets[assetName]
	if !ok {
		return nil, fmt.Errorf("release %s, asset %q: %w", release.Tag, assetName, source.ErrAssetNotFound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build asset request: %w", err)
	}

	c.setHeaders(req)

	logger.DebugKV(ctx, "Downloading release asset", "release", release.Tag, "asset", assetName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download asset %q: %w", assetName, err)
	}

	// Best-effort cleanup.
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("release %s, asset %q: %w", release.Tag, assetName, source.ErrAssetNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download asset %q: unexpected status %s", assetName, resp.Status)
	}

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", assetName, err)
	}

	return contents, nil
}

// setHeaders applies the headers shared by every request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// convertRelease maps the wire shape to the adapter-neutral release value.
func convertRelease(release releaseJSON) source.Release {
	assets := make(map[string]string, len(release.Assets))
	for _, asset := range release.Assets {
		assets[asset.Name] = asset.BrowserDownloadURL
	}

	publishedAt, err := time.Parse(time.RFC3339, release.PublishedAt)
	if err != nil {
		// The API omits published_at for some edge cases; a zero
		// timestamp is acceptable downstream.
		publishedAt = time.Time{}
	}

	return source.Release{
		Tag:         release.TagName,
		Name:        release.Name,
		Prerelease:  release.Prerelease,
		PublishedAt: publishedAt,
		Assets:      assets,
	}
}
