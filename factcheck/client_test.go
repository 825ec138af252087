package factcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/truthscore/truth"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewClient(Options{
		Endpoint: ts.URL + "/v1alpha1/claims:search",
		APIKey:   "test-key",
		Timeout:  2 * time.Second,
		HTTP:     ts.Client(),
	})
}

func TestVerify_OneClaim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1alpha1/claims:search", r.URL.Path)
		assert.Equal(t, "vaccines cause autism", r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"claims":[
			{"text":"Vaccines cause autism","claimant":"Blog","claimReview":[
				{"publisher":{"name":"Lupa"},"url":"https://example.org/1","textualRating":"Falso"},
				{"publisher":{"name":"Other"},"textualRating":"Misleading"}]},
			{"text":"Second claim","claimReview":[{"textualRating":"True"}]}]}`))
	})

	got, err := client.Verify(context.Background(), "vaccines cause autism")
	require.NoError(t, err)
	assert.Equal(t, "Vaccines cause autism - Veracidade: Falso", got)
}

func TestSearch_ClaimDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"claims":[{"text":"Earth is flat","claimant":"Forum","claimReview":[{"publisher":{"name":"Snopes"},"url":"https://example.org/flat","textualRating":"False"}]}]}`))
	})

	claim, err := client.Search(context.Background(), "earth flat")
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, "Earth is flat", claim.Text)
	assert.Equal(t, "False", claim.Rating)
	assert.Equal(t, "Forum", claim.Claimant)
	assert.Equal(t, "Snopes", claim.Publisher)
	assert.Equal(t, "https://example.org/flat", claim.URL)
}

func TestVerify_NoClaims(t *testing.T) {
	bodies := map[string]string{
		"empty list":    `{"claims":[]}`,
		"missing field": `{}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			got, err := client.Verify(context.Background(), "nothing to see")
			require.NoError(t, err)
			assert.Equal(t, truth.MsgNoVerification, got)
		})
	}
}

func TestVerify_FormatErrors(t *testing.T) {
	bodies := map[string]string{
		"invalid json":       `<html>oops</html>`,
		"claim without text": `{"claims":[{"claimReview":[{"textualRating":"False"}]}]}`,
		"no reviews":         `{"claims":[{"text":"x","claimReview":[]}]}`,
		"review no rating":   `{"claims":[{"text":"x","claimReview":[{"publisher":{"name":"p"}}]}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := client.Verify(context.Background(), "claim")
			require.Error(t, err)
			assert.True(t, truth.IsKind(err, truth.KindFormat), "got %v", err)
		})
	}
}

func TestVerify_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	})

	_, err := client.Verify(context.Background(), "claim")
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindNetwork))
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestVerify_ErrorStatusMultiByteBody(t *testing.T) {
	body := `{"error":{"message":"` + strings.Repeat("ção", 150) + `"}}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(body))
	})

	_, err := client.Verify(context.Background(), "claim")
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()), "error message must stay valid UTF-8")
	assert.Contains(t, err.Error(), "...")
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"short body kept", "  not found \n", "not found"},
		{"exactly at limit", strings.Repeat("é", 200), strings.Repeat("é", 200)},
		{"cut on rune boundary", strings.Repeat("é", 201), strings.Repeat("é", 200) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snippet([]byte(tt.body))
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestVerify_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(Options{
		Endpoint: ts.URL,
		APIKey:   "test-key",
		Timeout:  50 * time.Millisecond,
	})

	start := time.Now()
	_, err := client.Verify(context.Background(), "slow claim")
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindNetwork))
	assert.Less(t, time.Since(start), 2*time.Second)
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestVerify_TransportFailure(t *testing.T) {
	client := NewClient(Options{APIKey: "k", HTTP: failingDoer{}})

	_, err := client.Verify(context.Background(), "claim")
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindNetwork))
}

func TestVerify_MissingAPIKey(t *testing.T) {
	client := NewClient(Options{HTTP: failingDoer{}})

	_, err := client.Verify(context.Background(), "claim")
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindConfig))
}

func TestVerify_EmptyText(t *testing.T) {
	client := NewClient(Options{APIKey: "k", HTTP: failingDoer{}})

	_, err := client.Verify(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindEmptyInput))
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Options{})
	assert.Equal(t, DefaultEndpoint, client.endpoint)
	assert.Equal(t, DefaultTimeout, client.timeout)
	assert.NotNil(t, client.http)
}
