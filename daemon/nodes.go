package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"cirquity-wallet-tui/config"
)

// PublicNode is one entry of the published node list.
type PublicNode struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Port  int    `json:"port"`
	SSL   bool   `json:"ssl"`
	Cache bool   `json:"cache"`
}

// DaemonNode converts the entry for the config file.
func (n PublicNode) DaemonNode() config.DaemonNode {
	return config.DaemonNode{Name: n.Name, Host: n.URL, Port: n.Port, SSL: n.SSL}
}

// FetchNodeList downloads the public node list at url.
func FetchNodeList(ctx context.Context, client *http.Client, url string) ([]PublicNode, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build node list request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get node list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get node list: status %d", resp.StatusCode)
	}

	var doc struct {
		Nodes []PublicNode `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode node list: %w", err)
	}

	nodes := doc.Nodes[:0]
	for _, n := range doc.Nodes {
		if n.URL == "" || n.Port <= 0 {
			continue
		}
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	return nodes, nil
}
