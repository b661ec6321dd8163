package common

import (
	"fmt"
	"net/http"
)

// GetWithRetry issues the request and retries transport errors and
// non-2xx responses up to three times before giving up.
func GetWithRetry(req *http.Request, name string) (*http.Response, error) {
	var resp *http.Response
	var err error

	validResp, retries := false, 3
	for !validResp {
		resp, err = http.DefaultClient.Do(req)
		if err != nil {
			if retries > 1 {
				retries--
				continue
			}
			return nil, fmt.Errorf("%v api request: %w", name, err)
		} else if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			if retries > 1 {
				retries--
				continue
			}
			return nil, fmt.Errorf("error code %d returned from %v", resp.StatusCode, name)
		} else {
			validResp = true
		}
	}
	return resp, nil
}
