package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/titan-observatory/internal/config"
)

func TestBrevoClient_SendsDoubleOptIn(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewBrevoClient(config.NewsletterConfig{APIURL: srv.URL, APIKey: "key-123", TimeoutSeconds: 5})
	err := client.RequestDoubleOptIn(context.Background(), DoubleOptInRequest{
		Email:          "ada@site.org",
		Attributes:     map[string]any{"FIRSTNAME": "Ada"},
		IncludeListIDs: []int{7},
		TemplateID:     3,
		RedirectionURL: "https://site.org/thanks",
	})
	require.NoError(t, err)

	assert.Equal(t, "key-123", gotHeaders.Get("api-key"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Contains(t, gotHeaders.Get("Content-Type"), "application/json")
	assert.Equal(t, "ada@site.org", gotBody["email"])
	assert.Equal(t, []any{float64(7)}, gotBody["includeListIds"])
	assert.Equal(t, float64(3), gotBody["templateId"])
	assert.Equal(t, "https://site.org/thanks", gotBody["redirectionUrl"])
	assert.Equal(t, map[string]any{"FIRSTNAME": "Ada"}, gotBody["attributes"])
}

func TestBrevoClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"duplicate_parameter"}`))
	}))
	defer srv.Close()

	client := NewBrevoClient(config.NewsletterConfig{APIURL: srv.URL})
	err := client.RequestDoubleOptIn(context.Background(), DoubleOptInRequest{Email: "ada@site.org"})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Equal(t, `{"code":"duplicate_parameter"}`, upstream.Body)
}

func TestBrevoClient_CancelledContext(t *testing.T) {
	client := NewBrevoClient(config.NewsletterConfig{APIURL: "http://127.0.0.1:1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, client.RequestDoubleOptIn(ctx, DoubleOptInRequest{}), context.Canceled)
}

func TestBrevoClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewBrevoClient(config.NewsletterConfig{APIURL: url, TimeoutSeconds: 1})
	err := client.RequestDoubleOptIn(context.Background(), DoubleOptInRequest{Email: "ada@site.org"})
	require.Error(t, err)

	var upstream *UpstreamError
	assert.False(t, errors.As(err, &upstream))
}
