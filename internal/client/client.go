package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/core/list"
	"github.com/goto/salt/log"
	"github.com/hashicorp/go-retryablehttp"
)

type Config struct {
	Host                    string        `mapstructure:"host" default:"http://localhost:8080"`
	ServerHeaderKeyUserID   string        `yaml:"serverheaderkey_id" mapstructure:"serverheaderkey_id" default:"Ninja-User-ID"`
	ServerHeaderValueUserID string        `yaml:"serverheadervalue_id" mapstructure:"serverheadervalue_id" default:""`
	RetryMax                int           `yaml:"retry_max" mapstructure:"retry_max" default:"3"`
	Timeout                 time.Duration `yaml:"timeout" mapstructure:"timeout" default:"30s"`
}

// Client talks to the ninja HTTP API on behalf of a single user.
type Client struct {
	cfg  Config
	http *retryablehttp.Client
}

func Create(cfg Config, logger log.Logger) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.Host); err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", cfg.Host, err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = logger
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}

	return &Client{cfg: cfg, http: rc}, nil
}

// BuildAndExecute runs the filter against the server. It satisfies
// investor.Searcher so a View can be driven remotely.
func (c *Client) BuildAndExecute(ctx context.Context, flt investor.Filter) (investor.QueryResult, error) {
	var res investor.QueryResult
	if err := c.get(ctx, "/v1/investors", flt.Values(), &res); err != nil {
		return investor.QueryResult{}, investor.NewQueryError("search", err)
	}
	if res.Rows == nil {
		res.Rows = []investor.Summary{}
	}
	return res, nil
}

func (c *Client) GetInvestor(ctx context.Context, id int64) (investor.Investor, error) {
	var inv investor.Investor
	err := c.get(ctx, fmt.Sprintf("/v1/investors/%d", id), nil, &inv)
	var se StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return investor.Investor{}, investor.NotFoundError{ID: id}
	}
	return inv, err
}

func (c *Client) GetLists(ctx context.Context) ([]list.List, error) {
	var lists []list.List
	if err := c.get(ctx, "/v1/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) GetListInvestors(ctx context.Context, listID string, page int) (investor.QueryResult, error) {
	q := url.Values{}
	if page > 0 {
		q.Set(investor.ParamPage, fmt.Sprint(page))
	}
	var res investor.QueryResult
	if err := c.get(ctx, "/v1/lists/"+url.PathEscape(listID)+"/investors", q, &res); err != nil {
		return investor.QueryResult{}, err
	}
	return res, nil
}

// StatusError is a non-2xx reply. Reason carries the server's message.
type StatusError struct {
	Code   int
	Reason string
}

func (e StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("server replied %d", e.Code)
	}
	return fmt.Sprintf("server replied %d: %s", e.Code, e.Reason)
}

func (e StatusError) Is(target error) bool {
	return e.Code == http.StatusTooManyRequests && target == investor.ErrRateLimited
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := strings.TrimSuffix(c.cfg.Host, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.ServerHeaderValueUserID != "" {
		req.Header.Set(c.cfg.ServerHeaderKeyUserID, c.cfg.ServerHeaderValueUserID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Reason string `json:"reason"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
		return StatusError{Code: resp.StatusCode, Reason: body.Reason}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
