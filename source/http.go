package source

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/ssor/bom"
)

var (
	UserAgent = "open-mcp-servers-market/1.0 (+https://github.com/three-water666/open-mcp-servers-market)"
	Timeout   = 10 * time.Second
)

// HTTP fetches a document over HTTP(S).
type HTTP struct {
	name string
	url  string
}

func NewHTTP(name string, url string) *HTTP {
	ds := &HTTP{
		name: name,
		url:  url,
	}
	return ds
}

func (ds *HTTP) Name() string {
	return ds.name
}

func (ds *HTTP) Fetch() ([]byte, error) {
	resp, err := doRequest("GET", ds.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %v: unexpected response status=%v", ds.url, resp.StatusCode)
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return bom.CleanBom(body), nil
}

func doRequest(method string, u string) (*http.Response, error) {
	req, err := http.NewRequest(method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	c := &http.Client{
		Timeout: Timeout,
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
