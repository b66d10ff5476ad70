package httpclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cenkalti/backoff"

	"github.com/nyxio/upnpcp/internal/httpmsg"
)

// FetchDescription GETs loc and returns the response body, retrying
// transient connect/timeout failures with exponential backoff. Devices
// often answer M-SEARCH before their HTTP server has finished starting,
// so the first GET for a freshly-discovered device is expected to fail
// occasionally.
//
// Unlike SOAP and GENA calls, which surface a single failure to the
// caller immediately, description retrieval retries because it runs on
// the discovery path with no human waiting synchronously on it.
func (c *Client) FetchDescription(ctx context.Context, loc string) ([]byte, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("httpclient: invalid LOCATION %q: %w", loc, err)
	}
	addr := u.Host
	if u.Port() == "" {
		addr = u.Host + ":80"
	}

	path := u.RequestURI()
	if path == "" {
		path = "/"
	}

	var body []byte

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = descriptionRetryInitialInterval
	policy.MaxInterval = descriptionRetryMaxInterval
	policy.MaxElapsedTime = descriptionRetryMaxElapsed

	op := func() error {
		req := httpmsg.NewRequest("GET", path, "1.1", nil)
		req.Header.Set("Accept", "text/xml")
		resp, err := c.Do(ctx, addr, req)
		if err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if resp.Status == nil || resp.Status.Code != 200 {
			return backoff.Permanent(fmt.Errorf("httpclient: GET %s returned status %v", loc, resp.Status))
		}
		body = resp.Body
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func isRetryable(err error) bool {
	switch err.(type) {
	case *ConnectError, *TimeoutError:
		return true
	default:
		return false
	}
}
