package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/middleware"
	"marketplace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient talks to a live router over HTTP as one account
type testClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newTestClient(t *testing.T, baseURL, account string) *testClient {
	t.Helper()
	token, err := middleware.IssueToken(account, "test-secret", "marketplace", time.Hour)
	require.NoError(t, err)
	return &testClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// do sends the request and decodes the response into out when it is not nil
func (c *testClient) do(t *testing.T, method, path string, body, out interface{}) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}

func TestMarketplaceOverHTTP(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).GetRouter())
	defer srv.Close()

	organizer := newTestClient(t, srv.URL, "org")
	buyer := newTestClient(t, srv.URL, "bob")
	other := newTestClient(t, srv.URL, "eve")

	status := organizer.do(t, http.MethodPost, "/api/organizers", models.RegisterOrganizerRequest{Name: "Org"}, nil)
	require.Equal(t, http.StatusCreated, status)

	now := time.Now().UTC()
	var created models.CreateEventResponse
	status = organizer.do(t, http.MethodPost, "/api/events", models.CreateEventRequest{
		Name:        "Jazz Night",
		StartTime:   now.Add(-time.Hour),
		EndTime:     now.Add(24 * time.Hour),
		MaxCapacity: 2,
		TicketTypes: []models.TicketTypeRequest{{Name: "General", Price: 5000, Quantity: 2}},
		Sections:    []models.SectionRequest{{Name: "Floor", Capacity: 2, PriceMultiplier: 100}},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)

	var purchase models.PurchaseTicketResponse
	status = buyer.do(t, http.MethodPost, "/api/events/"+created.ID+"/purchase", models.PurchaseTicketRequest{
		TicketType: "General",
		Section:    "Floor",
		Payment:    6000,
	}, &purchase)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(5000), purchase.FinalPrice)
	assert.Equal(t, int64(125), purchase.PlatformFee)
	assert.Equal(t, int64(4875), purchase.Proceeds)
	assert.Equal(t, int64(1000), purchase.Refund)
	assert.NotEmpty(t, purchase.Ticket.AccessToken)
	ticketID := purchase.Ticket.ID

	var short map[string]string
	status = other.do(t, http.MethodPost, "/api/events/"+created.ID+"/purchase", models.PurchaseTicketRequest{
		TicketType: "General",
		Section:    "Floor",
		Payment:    10,
	}, &short)
	assert.Equal(t, http.StatusPaymentRequired, status)

	var mine []models.TicketResponse
	require.Equal(t, http.StatusOK, buyer.do(t, http.MethodGet, "/api/tickets", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, ticketID, mine[0].ID)

	verifyPath := "/api/events/" + created.ID + "/tickets/" + ticketID + "/verify"
	var verify models.VerifyTicketResponse
	require.Equal(t, http.StatusOK, buyer.do(t, http.MethodGet, verifyPath, nil, &verify))
	assert.True(t, verify.Valid)

	require.Equal(t, http.StatusOK, other.do(t, http.MethodGet, verifyPath, nil, &verify))
	assert.False(t, verify.Valid)
	assert.NotEmpty(t, verify.Reason)

	assert.Equal(t, http.StatusForbidden, other.do(t, http.MethodPatch, "/api/tickets/"+ticketID+"/use", nil, nil))

	var used models.TicketResponse
	require.Equal(t, http.StatusOK, buyer.do(t, http.MethodPatch, "/api/tickets/"+ticketID+"/use", nil, &used))
	assert.True(t, used.Used)
	assert.Equal(t, http.StatusConflict, buyer.do(t, http.MethodPatch, "/api/tickets/"+ticketID+"/use", nil, nil))

	var platform models.PlatformResponse
	require.Equal(t, http.StatusOK, other.do(t, http.MethodGet, "/api/platform", nil, &platform))
	assert.Equal(t, int64(125), platform.Revenue)

	var event models.EventResponse
	require.Equal(t, http.StatusOK, other.do(t, http.MethodGet, "/api/events/"+created.ID, nil, &event))
	assert.Equal(t, 1, event.CurrentSales)
}
