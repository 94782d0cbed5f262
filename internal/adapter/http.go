package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/models"
)

const (
	pushPath   = "/api/sync/push"
	beaconPath = "/api/sync/beacon"

	// beaconTimeout caps the send-only path: at teardown time there is no
	// point waiting out the full request timeout.
	beaconTimeout = 3 * time.Second
)

type httpServerAdapter struct {
	client  *resty.Client
	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// cfg.BaseURL and configures the underlying client with the resolved base
// URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPServerAdapter(cfg config.AgentAdapter, log *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpServerAdapter{client: client, hashKey: cfg.HashKey, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// PushBatch implements [ServerAdapter]. It computes a transport integrity
// hash over req.Operations, sets req.Length, and POSTs the batch to the
// push endpoint. The decoded per-operation verdict is returned only for 2xx
// responses; any other outcome leaves the caller's batch untouched.
func (h *httpServerAdapter) PushBatch(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	req.Hash = computeTransportHash(req.Operations, h.hashKey)
	req.Length = len(req.Operations)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(pushPath)
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResponse{}, err
	}

	var result models.PushResponse
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.PushResponse{}, fmt.Errorf("decode push response: %w", err)
	}

	return result, nil
}

// SendBeacon implements [ServerAdapter]. The body has been serialised ahead
// of time by the caller; the response status is deliberately ignored, the
// only signal is whether the request reached the transport.
func (h *httpServerAdapter) SendBeacon(body []byte) bool {
	if len(body) == 0 {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), beaconTimeout)
	defer cancel()

	_, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(beaconPath)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("func", "httpServerAdapter.SendBeacon").
			Msg("beacon handoff failed")
		return false
	}

	return true
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// UserIDFromToken extracts the numeric subject claim from a bearer token
// without verifying the signature. Verification is the remote's job; the
// client only needs the identity to scope its local queue.
func UserIDFromToken(tokenString string) (int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("token subject: %w", err)
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token subject %q is not a user id: %w", sub, err)
	}

	return id, nil
}

func computeTransportHash(v any, key string) string {
	if key == "" {
		return ""
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
