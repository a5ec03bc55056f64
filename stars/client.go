package stars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/three-water666/open-mcp-servers-market/domain"
)

var (
	GraphQLEndpoint = "https://api.github.com/graphql"
	UserAgent       = "open-mcp-servers-market/1.0 (+https://github.com/three-water666/open-mcp-servers-market)"
	Timeout         = 30 * time.Second

	// DefaultBatchSize caps the number of aliased repository nodes per query
	// to stay under the GraphQL node complexity limit.
	DefaultBatchSize = 50

	// DefaultBatchInterval spaces out successive batch requests as a courtesy
	// to the remote rate policy.
	DefaultBatchInterval = 1 * time.Second

	// DefaultMaxRetries bounds transport retries per batch.
	DefaultMaxRetries = uint64(3)
)

// Client fetches star counts for batches of GitHub repositories via the
// GraphQL API.
type Client struct {
	Endpoint  string
	Token     string
	BatchSize int

	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(token string) *Client {
	c := &Client{
		Endpoint:   GraphQLEndpoint,
		Token:      token,
		BatchSize:  DefaultBatchSize,
		httpClient: &http.Client{Timeout: Timeout},
		limiter:    rate.NewLimiter(rate.Every(DefaultBatchInterval), 1),
	}
	return c
}

// Enrich attaches star counts to every server whose URL resolves to a GitHub
// repository.  Servers sharing one repository identity all receive the same
// count.  Without a token the entire step is skipped.  Batch-level transport
// failures are logged and abort only the affected batch; identities missing
// from an otherwise successful response are simply left without a count.
func (c *Client) Enrich(servers []*domain.Server) {
	if c.Token == "" {
		log.Info("No GitHub token supplied, skipping star-count enrichment")
		return
	}

	var (
		groups = map[string][]*domain.Server{}
		ids    = map[string]RepoID{}
		order  = []string{}
	)
	for _, s := range servers {
		id, ok := ParseRepoID(s.URL)
		if !ok {
			continue
		}
		key := id.Key()
		if _, seen := ids[key]; !seen {
			ids[key] = id
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}
	if len(order) == 0 {
		log.Debug("No GitHub-hosted servers found, nothing to enrich")
		return
	}

	log.WithField("identities", len(order)).WithField("batch-size", c.BatchSize).Info("Fetching star counts")

	enriched := 0
	for start := 0; start < len(order); start += c.BatchSize {
		end := start + c.BatchSize
		if end > len(order) {
			end = len(order)
		}
		batch := order[start:end]

		if err := c.limiter.Wait(context.Background()); err != nil {
			log.Errorf("Rate limiter interrupted: %s", err)
			return
		}

		counts, err := c.fetchBatch(batch, ids)
		if err != nil {
			log.WithField("batch-start", start).Errorf("Star-count batch failed: %s", err)
			continue
		}
		for key, count := range counts {
			for _, s := range groups[key] {
				s.SetStarCount(count)
				enriched++
			}
		}
	}

	log.WithField("servers", enriched).Info("Star-count enrichment finished")
}

// fetchBatch issues one combined query for every identity in the batch.  Each
// repository is addressed by a positional alias so individual results can be
// routed back to their identity.
func (c *Client) fetchBatch(batch []string, ids map[string]RepoID) (map[string]int, error) {
	var q strings.Builder
	q.WriteString("query {")
	for i, key := range batch {
		id := ids[key]
		fmt.Fprintf(&q, " r%v: repository(owner: %q, name: %q) { stargazers { totalCount } }", i, id.Owner, id.Name)
	}
	q.WriteString(" }")

	payload, err := json.Marshal(map[string]string{"query": q.String()})
	if err != nil {
		return nil, err
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequest("POST", c.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "bearer "+c.Token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected response status=%v", resp.StatusCode)
		}
		body, err = ioutil.ReadAll(resp.Body)
		return err
	}
	if err := backoff.Retry(operation, backoff.WithMaxRetries(newBackoff(), DefaultMaxRetries)); err != nil {
		return nil, err
	}

	var parsed graphQLResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	for _, e := range parsed.Errors {
		// Per-item errors (renamed, private, or deleted repositories) leave
		// their alias null in the data payload; the batch itself is fine.
		log.WithField("message", e.Message).Debug("Partial GraphQL result")
	}

	counts := map[string]int{}
	for i, key := range batch {
		node, ok := parsed.Data[fmt.Sprintf("r%v", i)]
		if !ok || node == nil {
			continue
		}
		counts[key] = node.Stargazers.TotalCount
	}
	return counts, nil
}

func newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.Multiplier = 1.5
	b.RandomizationFactor = 0.5
	return b
}

type graphQLResponse struct {
	Data   map[string]*repositoryNode `json:"data"`
	Errors []graphQLError             `json:"errors"`
}

type repositoryNode struct {
	Stargazers struct {
		TotalCount int `json:"totalCount"`
	} `json:"stargazers"`
}

type graphQLError struct {
	Message string `json:"message"`
}
