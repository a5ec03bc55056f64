package stars

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

func newTestClient(endpoint string, token string) *Client {
	c := NewClient(token)
	c.Endpoint = endpoint
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestEnrichFanOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if expected, actual := "bearer test-token", r.Header.Get("Authorization"); actual != expected {
			t.Errorf("Expected authorization header=%v but actual=%v", expected, actual)
		}
		body, _ := ioutil.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(req["query"], `repository(owner: "a", name: "b")`) {
			t.Errorf("Expected query to address repository a/b, actual=%v", req["query"])
		}
		fmt.Fprint(w, `{"data":{"r0":{"stargazers":{"totalCount":42}}}}`)
	}))
	defer ts.Close()

	primary := domain.NewServer("primary", "https://github.com/a/b")
	subPath := domain.NewServer("sub", "https://github.com/a/b/tree/main/sub")
	elsewhere := domain.NewServer("elsewhere", "https://example.com")

	c := newTestClient(ts.URL, "test-token")
	c.Enrich([]*domain.Server{primary, subPath, elsewhere})

	if primary.StarCount == nil || *primary.StarCount != 42 {
		t.Errorf("Expected primary star count=42 but actual=%v", primary.StarCount)
	}
	if subPath.StarCount == nil || *subPath.StarCount != 42 {
		t.Errorf("Expected sub-path star count=42 but actual=%v", subPath.StarCount)
	}
	if elsewhere.StarCount != nil {
		t.Errorf("Expected non-GitHub server to stay unset but actual=%v", *elsewhere.StarCount)
	}
}

func TestEnrichPartialResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second alias unresolved (e.g. repository renamed or private).
		fmt.Fprint(w, `{"data":{"r0":{"stargazers":{"totalCount":7}},"r1":null},"errors":[{"message":"Could not resolve to a Repository"}]}`)
	}))
	defer ts.Close()

	found := domain.NewServer("found", "https://github.com/a/found")
	missing := domain.NewServer("missing", "https://github.com/a/missing")

	c := newTestClient(ts.URL, "t")
	c.Enrich([]*domain.Server{found, missing})

	if found.StarCount == nil || *found.StarCount != 7 {
		t.Errorf("Expected found star count=7 but actual=%v", found.StarCount)
	}
	if missing.StarCount != nil {
		t.Errorf("Expected missing repository to stay unset but actual=%v", *missing.StarCount)
	}
}

func TestEnrichBatching(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		body, _ := ioutil.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatal(err)
		}
		n := strings.Count(req["query"], "repository(")
		data := map[string]interface{}{}
		for i := 0; i < n; i++ {
			data[fmt.Sprintf("r%v", i)] = map[string]interface{}{
				"stargazers": map[string]int{"totalCount": 1},
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
	defer ts.Close()

	servers := []*domain.Server{}
	for i := 0; i < 5; i++ {
		servers = append(servers, domain.NewServer(fmt.Sprintf("s%v", i), fmt.Sprintf("https://github.com/o/r%v", i)))
	}

	c := newTestClient(ts.URL, "t")
	c.BatchSize = 2
	c.Enrich(servers)

	// ceil(5 / 2) batches.
	if expected, actual := 3, requests; actual != expected {
		t.Errorf("Expected number of batch requests=%v but actual=%v", expected, actual)
	}
	for i, s := range servers {
		if s.StarCount == nil {
			t.Errorf("[i=%v] Expected star count to be set", i)
		}
	}
}

func TestEnrichTransportFailureAbortsOnlyBatch(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"data":{"r0":{"stargazers":{"totalCount":3}}}}`)
	}))
	defer ts.Close()

	first := domain.NewServer("first", "https://github.com/o/first")
	second := domain.NewServer("second", "https://github.com/o/second")

	c := newTestClient(ts.URL, "t")
	c.BatchSize = 1
	// Keep the failing batch fast: a single attempt per batch.
	old := DefaultMaxRetries
	DefaultMaxRetries = 0
	defer func() { DefaultMaxRetries = old }()

	c.Enrich([]*domain.Server{first, second})

	if first.StarCount != nil {
		t.Errorf("Expected failed batch to leave star count unset but actual=%v", *first.StarCount)
	}
	if second.StarCount == nil || *second.StarCount != 3 {
		t.Errorf("Expected second batch to succeed with count=3 but actual=%v", second.StarCount)
	}
}

func TestEnrichWithoutToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no requests when no token is configured")
	}))
	defer ts.Close()

	s := domain.NewServer("s", "https://github.com/a/b")
	c := newTestClient(ts.URL, "")
	c.Enrich([]*domain.Server{s})

	if s.StarCount != nil {
		t.Errorf("Expected star count to stay unset but actual=%v", *s.StarCount)
	}
}

func TestNewBackoffBounds(t *testing.T) {
	b := newBackoff()
	d := b.NextBackOff()
	if d <= 0 || d > 5*time.Second {
		t.Errorf("Expected first backoff within (0, 5s] but actual=%v", d)
	}
}
