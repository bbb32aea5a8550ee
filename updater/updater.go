// Package updater checks whether a newer release has been published.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"
)

// DevVersion is the version string of local builds. Update checks are
// skipped for it.
const DevVersion = "dev"

// ErrBadVersion is returned when either version is not semver.
var ErrBadVersion = errors.New("updater: invalid version")

// Release is the document served by the update endpoint.
type Release struct {
	LatestVersion string `json:"latestVersion"`
	DownloadPath  string `json:"downloadPath"`
}

// Checker queries the update endpoint.
type Checker struct {
	BaseURL string
	Current string
	GOOS    string
	GOARCH  string

	client *http.Client
	logger *log.Logger
}

// New returns a checker for the running binary.
func New(baseURL, current string, logger *log.Logger) *Checker {
	if logger == nil {
		logger = log.Default()
	}
	return &Checker{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Current: current,
		GOOS:    runtime.GOOS,
		GOARCH:  runtime.GOARCH,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// URL is the endpoint for this platform and version.
func (c *Checker) URL() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.BaseURL, c.GOOS, c.Current, c.GOARCH)
}

// Check fetches the latest release. ok is true when it is newer than the
// running version.
func (c *Checker) Check(ctx context.Context) (rel Release, ok bool, err error) {
	if c.Current == DevVersion || c.Current == "" {
		c.logger.Debug("development build, skipping update check")
		return Release{}, false, nil
	}

	c.logger.Debug("checking for updates", "url", c.URL())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return Release{}, false, fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("error when contacting update server", "err", err)
		return Release{}, false, fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Release{}, false, fmt.Errorf("failed to check for updates: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Release{}, false, fmt.Errorf("failed to decode release: %w", err)
	}

	newer, err := Newer(rel.LatestVersion, c.Current)
	if err != nil {
		return rel, false, err
	}
	if newer {
		c.logger.Info("update available", "local", c.Current, "latest", rel.LatestVersion)
	} else {
		c.logger.Debug("no update found")
	}
	return rel, newer, nil
}

// Newer reports whether latest is a higher semantic version than current.
// A leading "v" is optional on both.
func Newer(latest, current string) (bool, error) {
	l, cur := canonical(latest), canonical(current)
	if !semver.IsValid(l) {
		return false, fmt.Errorf("%w: %q", ErrBadVersion, latest)
	}
	if !semver.IsValid(cur) {
		return false, fmt.Errorf("%w: %q", ErrBadVersion, current)
	}
	return semver.Compare(l, cur) > 0, nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
