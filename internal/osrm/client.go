package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"skycourier/internal/common"
	t "skycourier/internal/types"
)

type Response struct {
	Code   string  `json:"code"`
	Routes []Route `json:"routes"`
}

type Route struct {
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
}

type ClientOption func(*Client)

type Client struct {
	baseUrl string
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in osrm client")
	}
	return c
}

// Leg fetches route-level distance and duration between two stops and
// adapts them into a leg (meters to km, seconds to hours).
func (c *Client) Leg(ctx context.Context, seq int, origin, destination t.Stop) (t.Leg, error) {
	reqUrl := fmt.Sprintf("%v/%f,%f;%f,%f", c.baseUrl,
		origin.Longitude, origin.Latitude, destination.Longitude, destination.Latitude)
	req, err := url.Parse(reqUrl)
	if err != nil {
		return t.Leg{}, fmt.Errorf("failed to parse osrm url %s: %w", reqUrl, err)
	}

	q := req.Query()
	q.Add("overview", "false")
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "osrm")
	if err != nil {
		return t.Leg{}, err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.Leg{}, fmt.Errorf("error reading osrm response body: %w", err)
	}

	var respObj Response
	err = json.Unmarshal(body, &respObj)
	if err != nil {
		return t.Leg{}, fmt.Errorf("error unmarshalling response from osrm: %w", err)
	}
	if respObj.Code != "Ok" || len(respObj.Routes) == 0 {
		return t.Leg{}, fmt.Errorf("osrm returned no route (code %v)", respObj.Code)
	}

	route := respObj.Routes[0]
	return t.Leg{
		Origin:      origin,
		Destination: destination,
		Sequence:    seq,
		DistanceKM:  route.Distance / 1000,
		BaseHours:   route.Duration / 3600,
	}, nil
}
