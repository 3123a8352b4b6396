package media

import (
	"fmt"
	"io"
	"net/http"
)

// plainDoer stands in for httpkit so tests can talk to loopback servers.
type plainDoer struct{}

func (plainDoer) DoRequest(req *http.Request) ([]byte, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
