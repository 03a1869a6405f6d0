package external

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"marketplace/internal/models"
)

// HoldingsClient asks the holdings service whether an account owns a token from
// any of a set of NFT collections.
type HoldingsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type HoldingsConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type HoldingsVerifyRequest struct {
	Owner       string   `json:"owner"`
	Collections []string `json:"collections"`
	Token       string   `json:"token"`
}

type HoldingsVerifyResponse struct {
	Success    bool   `json:"success"`
	Eligible   bool   `json:"eligible"`
	Collection string `json:"collection,omitempty"`
	Message    string `json:"message,omitempty"`
}

func NewHoldingsClient(cfg HoldingsConfig) *HoldingsClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &HoldingsClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// generateToken signs the request: SHA-256 over the sorted collections, the owner and the API key.
func (hc *HoldingsClient) generateToken(owner string, collections []string) string {
	sorted := append([]string(nil), collections...)
	sort.Strings(sorted)

	tokenString := strings.Join(sorted, ",") + owner + hc.apiKey

	hash := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(hash[:])
}

// IsEligible reports whether buyer holds any of the benefit's collections.
func (hc *HoldingsClient) IsEligible(ctx context.Context, benefit *models.NFTBenefits, buyer string) (bool, error) {
	if benefit == nil || len(benefit.EligibleCollections) == 0 {
		return false, nil
	}

	req := HoldingsVerifyRequest{
		Owner:       buyer,
		Collections: benefit.EligibleCollections,
		Token:       hc.generateToken(buyer, benefit.EligibleCollections),
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, hc.baseURL+"/v1/holdings/verify", bytes.NewBuffer(jsonBody))
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := hc.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("failed to verify holdings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result HoldingsVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		return false, fmt.Errorf("holdings verification failed: %s", result.Message)
	}

	return result.Eligible, nil
}
