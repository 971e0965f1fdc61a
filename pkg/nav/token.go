// Package nav holds console navigation: place tokens, the place manager that
// drives presenters, the event bus and the subsystem tree model.
package nav

import (
	"fmt"
	"sort"
	"strings"
)

// Name tokens of the places the console knows.
const (
	NameTokenServerConfig = "server"
	NameTokenDataSources  = "datasources"
	NameTokenMessaging    = "messaging"
)

// ServerConfigPlace is the parent place of every subsystem token.
const ServerConfigPlace = NameTokenServerConfig + "/"

// PlaceRequest is one level of a navigation token.
type PlaceRequest struct {
	NameToken string
	Params    map[string]string
}

func NewPlaceRequest(token string) PlaceRequest {
	return PlaceRequest{NameToken: token}
}

// With returns a copy of r carrying one more parameter.
func (r PlaceRequest) With(key, value string) PlaceRequest {
	params := make(map[string]string, len(r.Params)+1)
	for k, v := range r.Params {
		params[k] = v
	}
	params[key] = value
	return PlaceRequest{NameToken: r.NameToken, Params: params}
}

func (r PlaceRequest) Param(key string) string {
	return r.Params[key]
}

func (r PlaceRequest) String() string {
	if len(r.Params) == 0 {
		return r.NameToken
	}
	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.NameToken)
	for _, k := range keys {
		fmt.Fprintf(&b, ";%s=%s", k, r.Params[k])
	}
	return b.String()
}

// ParseToken splits "server/messaging;name=default" into its hierarchy.
func ParseToken(token string) ([]PlaceRequest, error) {
	token = strings.Trim(strings.TrimSpace(token), "/")
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	var hierarchy []PlaceRequest
	for _, segment := range strings.Split(token, "/") {
		req, err := parseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("token %q: %w", token, err)
		}
		hierarchy = append(hierarchy, req)
	}
	return hierarchy, nil
}

func parseSegment(segment string) (PlaceRequest, error) {
	parts := strings.Split(segment, ";")
	req := PlaceRequest{NameToken: strings.TrimSpace(parts[0])}
	if req.NameToken == "" {
		return req, fmt.Errorf("segment %q has no name token", segment)
	}
	for _, param := range parts[1:] {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			return req, fmt.Errorf("malformed parameter %q", param)
		}
		req = req.With(key, value)
	}
	return req, nil
}

// BuildToken is the inverse of ParseToken.
func BuildToken(hierarchy []PlaceRequest) string {
	parts := make([]string, len(hierarchy))
	for i, req := range hierarchy {
		parts[i] = req.String()
	}
	return strings.Join(parts, "/")
}
