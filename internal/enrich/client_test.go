package enrich

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhance_NoWebhookConfigured(t *testing.T) {
	c := New("", "", nil)

	result := c.Enhance(context.Background(), "buy milk")
	assert.True(t, result.Empty())
}

func TestEnhance_ObjectResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "buy milk", req["title"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"enhanced_title":"Buy 2L of milk","steps":["go to store","pay"]}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "", nil)
	result := c.Enhance(context.Background(), "buy milk")

	assert.Equal(t, "Buy 2L of milk", result.EnhancedTitle)
	assert.Equal(t, []string{"go to store", "pay"}, result.Steps)
}

func TestEnhance_ArrayResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"enhanced_title":"Pay September rent","steps":["check balance"]}]`)
	}))
	defer ts.Close()

	c := New(ts.URL, "", nil)
	result := c.Enhance(context.Background(), "pay rent")

	assert.Equal(t, "Pay September rent", result.EnhancedTitle)
	assert.Equal(t, []string{"check balance"}, result.Steps)
}

func TestEnhance_BearerTokenSent(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "s3cret", nil)
	c.Enhance(context.Background(), "buy milk")

	assert.Equal(t, "Bearer s3cret", gotAuth)
}

func TestEnhance_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "", nil)
	c.Enhance(context.Background(), "buy milk")

	assert.Empty(t, gotAuth)
}

func TestEnhance_FailureModesDegradeToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `not json at all`)
		}},
		{"empty array", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[]`)
		}},
		{"null title", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"enhanced_title":null}`)
		}},
		{"empty title", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"enhanced_title":""}`)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			c := New(ts.URL, "", nil)
			result := c.Enhance(context.Background(), "buy milk")
			assert.Empty(t, result.EnhancedTitle)
		})
	}
}

func TestEnhance_TransportErrorDegradesToEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	c := New(ts.URL, "", nil)
	result := c.Enhance(context.Background(), "buy milk")
	assert.True(t, result.Empty())
}

func TestEnhance_StepsWithoutTitle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"steps":["only steps"]}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "", nil)
	result := c.Enhance(context.Background(), "buy milk")

	assert.Empty(t, result.EnhancedTitle)
	assert.Equal(t, []string{"only steps"}, result.Steps)
}
