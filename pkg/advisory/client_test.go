package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	endpoint string
	model    string
	apiKey   string
}

func (f *fakeSettings) GetAdvisoryEndpoint() string { return f.endpoint }
func (f *fakeSettings) GetAdvisoryModel() string    { return f.model }
func (f *fakeSettings) GetAdvisoryAPIKey() string   { return f.apiKey }

// chatHandler wraps an advisory JSON payload in the chat-completions
// envelope the client expects.
func chatHandler(t *testing.T, content interface{}) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "flat")

		inner, err := json.Marshal(content)
		require.NoError(t, err)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": string(inner)}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func testRequest() Request {
	return Request{Classification: "flat", ShoeSize: "US 9", CSI: 0.61, SI: 0.8}
}

func TestFetchParsesAdvisoryContent(t *testing.T) {
	payload := Content{
		Explanation: "Your arch contacts the ground broadly.",
		Shoes:       []string{"Model A", "Model B"},
		Exercise:    Exercise{Name: "Short foot", Instruction: "Draw the arch up while seated."},
	}
	srv := httptest.NewServer(chatHandler(t, payload))
	defer srv.Close()

	c := NewClient(&fakeSettings{endpoint: srv.URL, model: "test-model", apiKey: "test-key"}, srv.Client())
	got, err := c.Fetch(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, &payload, got)
	assert.False(t, got.Empty())
}

func TestFetchTruncatesShoeList(t *testing.T) {
	shoes := make([]string, 9)
	for i := range shoes {
		shoes[i] = fmt.Sprintf("Shoe %d", i)
	}
	srv := httptest.NewServer(chatHandler(t, Content{Explanation: "x", Shoes: shoes}))
	defer srv.Close()

	c := NewClient(&fakeSettings{endpoint: srv.URL, model: "test-model", apiKey: "test-key"}, srv.Client())
	got, err := c.Fetch(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Len(t, got.Shoes, maxShoes)
}

func TestFetchMissingAPIKey(t *testing.T) {
	c := NewClient(&fakeSettings{endpoint: "http://unused", model: "m"}, nil)
	got, err := c.Fetch(context.Background(), testRequest())
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "API key")
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(&fakeSettings{endpoint: srv.URL, model: "test-model", apiKey: "test-key"}, srv.Client())
	got, err := c.Fetch(context.Background(), testRequest())
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "status 429")
}

func TestFetchMalformedAdvisoryJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "sorry, I cannot do that"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(&fakeSettings{endpoint: srv.URL, model: "test-model", apiKey: "test-key"}, srv.Client())
	got, err := c.Fetch(context.Background(), testRequest())
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "parse advisory content")
}

func TestFetchEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	c := NewClient(&fakeSettings{endpoint: srv.URL, model: "test-model", apiKey: "test-key"}, srv.Client())
	got, err := c.Fetch(context.Background(), testRequest())
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "no choices")
}

func TestFetchCoalescesConcurrentRequests(t *testing.T) {
	var hits int32
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-block
		inner, _ := json.Marshal(Content{Explanation: "x"})
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": string(inner)}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(&fakeSettings{endpoint: srv.URL, model: "test-model", apiKey: "test-key"}, srv.Client())

	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := c.Fetch(context.Background(), testRequest())
			assert.NoError(t, err)
		}()
	}
	// Let the goroutines pile onto the in-flight request, then release.
	for atomic.LoadInt32(&hits) == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	close(block)
	for i := 0; i < 3; i++ {
		<-done
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "identical in-flight requests must coalesce")
}

func TestContentEmpty(t *testing.T) {
	assert.True(t, (*Content)(nil).Empty())
	assert.True(t, (&Content{}).Empty())
	assert.False(t, (&Content{Explanation: "x"}).Empty())
	assert.False(t, (&Content{Shoes: []string{"a"}}).Empty())
}
