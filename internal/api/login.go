package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"warboard/internal/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/valyala/fasthttp"
)

const sessionCookie = "session"

type portalLoginResponse struct {
	TemporaryAPIToken string `json:"temporaryAPIToken"`
}

type portalKey struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CIDRRanges  []string `json:"cidrRanges"`
	Scopes      []string `json:"scopes"`
	Key         string   `json:"key"`
}

type portalKeyListResponse struct {
	Keys []portalKey `json:"keys"`
}

type portalKeyResponse struct {
	Key portalKey `json:"key"`
}

type tokenLimit struct {
	Type  string   `json:"type"`
	CIDRs []string `json:"cidrs"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Limits []tokenLimit `json:"limits"`
}

// Login signs in to the developer portal and selects an API key that is
// valid for the address the portal sees, creating one when needed.
func (c *Client) Login(ctx context.Context, email, password string) error {
	session, token, err := c.portalLogin(ctx, email, password)
	if err != nil {
		return err
	}

	ip, err := clientIP(token)
	if err != nil {
		return err
	}

	var keys portalKeyListResponse
	if err := c.portalPost(ctx, "/apikey/list", session, struct{}{}, &keys); err != nil {
		return fmt.Errorf("list keys: %w", err)
	}

	for _, k := range keys.Keys {
		if k.Name == c.keyName && slices.Contains(k.CIDRRanges, ip) {
			c.setKey(k.Key)
			return nil
		}
	}

	if len(keys.Keys) >= constants.MaxAPIKeys {
		stale := slices.IndexFunc(keys.Keys, func(k portalKey) bool { return k.Name == c.keyName })
		if stale < 0 {
			return fmt.Errorf("developer account already holds %d keys and none is named %q", len(keys.Keys), c.keyName)
		}
		if err := c.portalPost(ctx, "/apikey/revoke", session, map[string]string{"id": keys.Keys[stale].ID}, nil); err != nil {
			return fmt.Errorf("revoke key: %w", err)
		}
	}

	var created portalKeyResponse
	body := map[string]any{
		"name":        c.keyName,
		"description": "created for " + ip,
		"cidrRanges":  []string{ip},
		"scopes":      []string{"clash"},
	}
	if err := c.portalPost(ctx, "/apikey/create", session, body, &created); err != nil {
		return fmt.Errorf("create key: %w", err)
	}
	if created.Key.Key == "" {
		return errors.New("create key: portal returned an empty key")
	}

	c.setKey(created.Key.Key)
	return nil
}

func (c *Client) portalLogin(ctx context.Context, email, password string) (string, string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", "", err
	}

	req.SetRequestURI(c.portalURL + "/login")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	if err := c.do(ctx, req, resp); err != nil {
		return "", "", fmt.Errorf("portal login: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", "", fmt.Errorf("portal login: %w", decodeError(resp, "/login"))
	}

	var login portalLoginResponse
	if err := json.Unmarshal(resp.Body(), &login); err != nil {
		return "", "", fmt.Errorf("decode portal login: %w", err)
	}

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(sessionCookie)
	if !resp.Header.Cookie(cookie) {
		return "", "", errors.New("portal login: no session cookie in response")
	}

	return string(cookie.Value()), login.TemporaryAPIToken, nil
}

func (c *Client) portalPost(ctx context.Context, path, session string, body, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req.SetRequestURI(c.portalURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.SetCookie(sessionCookie, session)
	req.SetBody(payload)

	if err := c.do(ctx, req, resp); err != nil {
		return err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return decodeError(resp, path)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

// clientIP reads the caller address the portal embedded in the temporary
// token. The token is only inspected, never trusted for authorization.
func clientIP(token string) (string, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse temporary token: %w", err)
	}

	for _, limit := range claims.Limits {
		if limit.Type != "client" || len(limit.CIDRs) == 0 {
			continue
		}
		ip, _, _ := strings.Cut(limit.CIDRs[0], "/")
		return ip, nil
	}
	return "", errors.New("temporary token carries no client address")
}
