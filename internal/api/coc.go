package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"warboard/internal/config"
	"warboard/internal/constants"
	"warboard/internal/domain"

	"github.com/valyala/fasthttp"
)

// Client talks to the Clash of Clans game API and to the developer portal
// that issues its keys.
type Client struct {
	apiURL    string
	portalURL string
	keyName   string
	client    *fasthttp.Client

	keyMu  sync.RWMutex
	apiKey string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:    strings.TrimRight(cfg.CocAPIURL, "/"),
		portalURL: strings.TrimRight(cfg.CocPortalURL, "/"),
		keyName:   cfg.CocKeyName,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			// keep "%23" in tags as sent
			DisablePathNormalizing: true,
		},
	}
}

func (c *Client) key() string {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()
	return c.apiKey
}

func (c *Client) setKey(key string) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	c.apiKey = key
}

func (c *Client) GetClan(ctx context.Context, tag string) (*Clan, error) {
	return doRequest[Clan](ctx, c, "/clans/"+url.PathEscape(tag))
}

func (c *Client) GetPlayer(ctx context.Context, tag string) (*Player, error) {
	return doRequest[Player](ctx, c, "/players/"+url.PathEscape(tag))
}

func (c *Client) GetCurrentWar(ctx context.Context, tag string) (*ClanWar, error) {
	return doRequest[ClanWar](ctx, c, "/clans/"+url.PathEscape(tag)+"/currentwar")
}

func (c *Client) GetWarLeagueGroup(ctx context.Context, tag string) (*WarLeagueGroup, error) {
	return doRequest[WarLeagueGroup](ctx, c, "/clans/"+url.PathEscape(tag)+"/currentwar/leaguegroup")
}

func (c *Client) GetWarLeagueWar(ctx context.Context, warTag string) (*ClanWar, error) {
	return doRequest[ClanWar](ctx, c, "/clanwarleagues/wars/"+url.PathEscape(warTag))
}

func (c *Client) GetWarLog(ctx context.Context, tag string) (*WarLog, error) {
	return doRequest[WarLog](ctx, c, "/clans/"+url.PathEscape(tag)+"/warlog")
}

func doRequest[T any](ctx context.Context, client *Client, path string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.apiURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+client.key())

	if err := client.do(ctx, req, resp); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, decodeError(resp, path)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
			return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
		}
		return err
	}
	return nil
}

func decodeError(resp *fasthttp.Response, path string) error {
	apiErr := &Error{Status: resp.StatusCode(), Path: path}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Reason == "" {
		apiErr.Reason = fasthttp.StatusMessage(resp.StatusCode())
	}
	return apiErr
}
