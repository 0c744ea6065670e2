package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// finalizeNodes expands ${VAR} references in node URLs and auth values and
// folds query auth into the URL.
func (c Chains) finalizeNodes() error {
	for name, chain := range c {
		nodes := make([]NodeConfig, len(chain.Nodes))
		for i, n := range chain.Nodes {
			n.URL = substituteEnvVars(n.URL)
			n.Auth.Value = substituteEnvVars(n.Auth.Value)

			if n.Auth.Type == "query" && n.Auth.Key != "" {
				u, err := url.Parse(n.URL)
				if err != nil || u.Scheme == "" {
					return fmt.Errorf("%s: invalid node url: %q", name, n.URL)
				}
				q := u.Query()
				q.Set(n.Auth.Key, n.Auth.Value)
				u.RawQuery = q.Encode()
				n.URL = u.String()
				n.Auth = AuthConfig{}
			}
			nodes[i] = n
		}
		chain.Nodes = nodes
		c[name] = chain
	}
	return nil
}

func substituteEnvVars(s string) string {
	if s == "" {
		return s
	}
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			break
		}
		end += start
		varName := s[start+2 : end]
		s = strings.ReplaceAll(s, "${"+varName+"}", os.Getenv(varName))
	}
	return s
}
