// Package entitlement decides who may see the unlocked play.
//
// Member access is delegated to the commerce platform: the caller's signed
// user token is verified locally, then each configured product tier is
// checked against the platform API.  The tiers all grant the same unlock,
// so the checks run concurrently and are OR-combined, and any single
// check's failure counts only as "no access through that tier"; a
// transient error on one product must never lock out a member entitled
// through another.
package entitlement

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Result is the caller's entitlement, computed fresh per request and
// never cached.
type Result struct {
	Authenticated bool `json:"authenticated"`
	HasAccess     bool `json:"hasAccess"`
}

type Config struct {
	// APIURL is the base URL of the commerce platform API.
	APIURL string
	APIKey string

	// ProductIDs are the purchasable tiers that grant the unlock.
	ProductIDs []string

	// TokenPublicKey verifies user tokens.  Nil disables verification,
	// making every caller unauthenticated.
	TokenPublicKey ed25519.PublicKey

	// AdminSecret gates write/delete.  Empty denies all admin calls.
	AdminSecret string

	// CheckTimeout bounds each per-product API call.  Defaults to 5s.
	CheckTimeout time.Duration
}

type Gate struct {
	cfg    Config
	client *http.Client
	logger *log.Logger
}

func NewGate(cfg Config, logger *log.Logger) *Gate {
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = 5 * time.Second
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")

	return &Gate{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.CheckTimeout},
		logger: logger,
	}
}

// CheckAccess resolves the caller's entitlement from their user token.
// An absent or invalid token short-circuits without touching the platform
// API.  Otherwise every product tier is queried concurrently and access
// is granted if any tier reports it.
func (g *Gate) CheckAccess(ctx context.Context, userToken string) Result {
	userID, ok := verifyUserToken(userToken, g.cfg.TokenPublicKey)
	if !ok {
		return Result{}
	}

	res := Result{Authenticated: true}
	if g.cfg.APIURL == "" || len(g.cfg.ProductIDs) == 0 {
		return res
	}

	granted := make([]bool, len(g.cfg.ProductIDs))
	var wg sync.WaitGroup
	for i, productID := range g.cfg.ProductIDs {
		wg.Add(1)
		go func(i int, productID string) {
			defer wg.Done()
			ok, err := g.checkProduct(ctx, userID, productID)
			if err != nil {
				// Swallowed: one tier's failure is just "no access
				// through that tier".
				g.logger.Printf("access check %s: %v", productID, err)
				return
			}
			granted[i] = ok
		}(i, productID)
	}
	wg.Wait()

	for _, ok := range granted {
		if ok {
			res.HasAccess = true
			break
		}
	}
	return res
}

// CheckAdmin compares the provided secret against the configured one.
// Plain equality, no throttling: this gates an internal operator control,
// not a public auth surface.
func (g *Gate) CheckAdmin(providedSecret string) bool {
	if g.cfg.AdminSecret == "" || providedSecret == "" {
		return false
	}
	return providedSecret == g.cfg.AdminSecret
}

type accessCheckResponse struct {
	HasAccess bool `json:"has_access"`
}

func (g *Gate) checkProduct(ctx context.Context, userID, productID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.CheckTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/users/%s/access/%s",
		g.cfg.APIURL, url.PathEscape(userID), url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build access request: %w", err)
	}
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("access request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("access API returned %d", resp.StatusCode)
	}

	var decoded accessCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("decode access response: %w", err)
	}
	return decoded.HasAccess, nil
}
