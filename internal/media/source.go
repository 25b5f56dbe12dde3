package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// openLocator opens an http(s) URL, a file:// URL or a bare path.
// Locators that do not parse are tried as paths.
func openLocator(ctx context.Context, client *http.Client, loc string) (io.ReadCloser, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return openFile(loc)
	}

	switch u.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", loc, resp.Status)
		}
		return resp.Body, nil
	case "file":
		return openFile(u.Path)
	case "":
		return openFile(loc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, u.Scheme)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path) //nolint:gosec // locators come from the trusted feed
}

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
