package ratelimit

import (
	"strings"
)

var unlimited = &EndpointConfig{Path: "unlimited"}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil when no rule matches. Rules whose path ends with "/" match by prefix.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && (method == "GET" || method == "HEAD") {
		return unlimited
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		rule := &configs[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return nil
}
