//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/pkg/auth"
)

var (
	baseURL string
	token   string
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestMain(m *testing.M) {
	baseURL = getenv("PRICING_URL", "http://localhost:8095")

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret: getenv("JWT_SECRET", "e2e-secret"),
		Issuer: getenv("JWT_ISSUER", "bib-identity"),
	})
	if err != nil {
		panic(err)
	}
	token, err = jwtSvc.GenerateToken("e2e-runner", []string{auth.RolePricingRead})
	if err != nil {
		panic(err)
	}

	// Wait for the first rate table.
	for i := 0; i < 30; i++ {
		resp, err := http.Get(baseURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func post(t *testing.T, path string, body any, bearer string) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

var scenario = map[string]any{
	"loan_amount":  "400000",
	"credit_score": 720,
	"ltv":          "80",
	"loan_type":    "30yr_fixed",
}

func TestHealthCheck(t *testing.T) {
	resp, err := http.Get(baseURL + "/healthz")
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestQuoteRequiresToken(t *testing.T) {
	resp := post(t, "/v1/quotes", scenario, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestQuoteFlow(t *testing.T) {
	// Step 1: quote.
	resp := post(t, "/v1/quotes", scenario, token)
	quote := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, quote)
	assert.NotEmpty(t, quote["rate_table_id"])

	// Step 2: optimize the same scenario.
	resp = post(t, "/v1/optimizations", scenario, token)
	opt := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, opt)
	assert.Equal(t, quote["rate_table_id"], opt["rate_table_id"], "no refresh between calls")

	// Step 3: compare across loan types.
	resp = post(t, "/v1/quotes/compare", scenario, token)
	cmp := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, cmp)
	assert.NotEmpty(t, cmp["quotes"])
}

func TestInvalidScenarioRejected(t *testing.T) {
	bad := map[string]any{
		"loan_amount":  "400000",
		"credit_score": 200,
		"ltv":          "80",
		"loan_type":    "30yr_fixed",
	}
	resp := post(t, "/v1/quotes", bad, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
