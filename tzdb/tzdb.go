// Package tzdb downloads and unpacks tz database releases from the
// [IANA data server]. Pass the ETag returned by Latest back in on the
// next call to skip downloads when nothing changed upstream.
//
// [IANA data server]: https://www.iana.org/time-zones
package tzdb

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const (
	baseURL        = "https://data.iana.org/time-zones/"
	latestDataPath = "tzdata-latest.tar.gz"

	// dataFileMagic identifies compilable data files in the archive;
	// everything else (Makefile, NEWS, theory.html, ...) lacks it.
	dataFileMagic = "# tzdb data for"

	leapSecondsFilename = "leapseconds"
	versionFilename     = "version"
)

// Release is an unpacked tz database release.
type Release struct {
	// Version is the release version, for example "2025a".
	Version string

	// DataFiles maps data file names ("europe", "backward", ...) to
	// their contents. Every value starts with the data file magic
	// header.
	DataFiles map[string][]byte

	// LeapSeconds is the content of the leap seconds file.
	LeapSeconds []byte
}

// SortedNames returns the data file names in lexical order, for a
// deterministic compile order.
func (r *Release) SortedNames() []string {
	names := make([]string, 0, len(r.DataFiles))
	for name := range r.DataFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultClient is used by the top-level Latest function.
var DefaultClient = &Client{}

// Client downloads tz database releases. The zero value is ready to
// use.
type Client struct {
	// HTTPClient is used for all requests; nil means
	// http.DefaultClient. Tests swap in a client with a fake
	// http.RoundTripper to stay off the network.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Latest downloads and unpacks the latest release using DefaultClient.
func Latest(ctx context.Context, etag string) (*Release, string, error) {
	return DefaultClient.Latest(ctx, etag)
}

// Latest downloads and unpacks the latest release.
//
// When the server answers 304 Not Modified for the given ETag, the
// release is nil and the ETag comes back unchanged. On error the ETag
// is empty.
func (c *Client) Latest(ctx context.Context, etag string) (*Release, string, error) {
	body, newEtag, err := c.download(ctx, latestDataPath, etag)
	if err != nil {
		return nil, "", err
	}
	if body == nil {
		return nil, etag, nil // not modified
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, body)
		_ = body.Close()
	}()

	release, err := ReadArchive(body)
	if err != nil {
		return nil, "", err
	}
	return release, newEtag, nil
}

// download fetches path relative to the IANA data server, sending
// If-None-Match when etag is non-empty. A nil ReadCloser with a nil
// error means 304 Not Modified; otherwise the caller owns the body.
func (c *Client) download(ctx context.Context, path, etag string) (io.ReadCloser, string, error) {
	u, err := url.JoinPath(baseURL, path)
	if err != nil {
		return nil, "", fmt.Errorf("join URL: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request for %q: %w", u, err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %q: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotModified {
			return nil, etag, nil
		}
		return nil, "", fmt.Errorf("GET %q: unexpected status: %s", u, resp.Status)
	}
	return resp.Body, resp.Header.Get("Etag"), nil
}

// ReadArchive unpacks a release from a gzip-compressed tar archive as
// distributed at https://data.iana.org/time-zones/releases/.
func ReadArchive(r io.Reader) (*Release, error) {
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)

	release := &Release{DataFiles: make(map[string][]byte)}
	magic := make([]byte, len(dataFileMagic))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch header.Name {
		case leapSecondsFilename:
			if release.LeapSeconds, err = io.ReadAll(tr); err != nil {
				return nil, fmt.Errorf("read leap seconds file: %w", err)
			}
			continue
		case versionFilename:
			b, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read version file: %w", err)
			}
			release.Version = strings.TrimSpace(string(b))
			if release.Version == "" {
				return nil, fmt.Errorf("empty version file")
			}
			continue
		}

		if header.Size < int64(len(magic)) {
			continue
		}
		if _, err := io.ReadFull(tr, magic); err != nil {
			return nil, fmt.Errorf("read %q: %w", header.Name, err)
		}
		if string(magic) != dataFileMagic {
			continue
		}

		data := make([]byte, header.Size)
		copy(data, magic)
		if _, err := io.ReadFull(tr, data[len(magic):]); err != nil {
			return nil, fmt.Errorf("read %q: %w", header.Name, err)
		}
		release.DataFiles[header.Name] = data
	}

	if len(release.DataFiles) == 0 {
		return nil, fmt.Errorf("no data files found")
	}
	if release.Version == "" {
		return nil, fmt.Errorf("no version found")
	}
	return release, nil
}
