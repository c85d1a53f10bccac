// Package scimdiscovery probes a SCIM v2 server through its discovery
// endpoints. The run commands drive the client surface; the probe command
// talks to the server directly, to confirm the fixtures behind the client
// expose the resource types the scenarios expect.
package scimdiscovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
)

const defaultTimeout = 10 * time.Second

// kindByResourceType maps SCIM resource type names to the client resource
// kinds whose navigation labels list them.
var kindByResourceType = map[string]domain.ResourceKind{
	"User":        domain.KindUser,
	"Group":       domain.KindGroup,
	"Entitlement": domain.KindEntitlement,
	"Role":        domain.KindRole,
}

type Prober struct {
	client *resty.Client
}

var _ ports.Discoverer = (*Prober)(nil)

type Option func(*Prober)

func WithTimeout(d time.Duration) Option {
	return func(p *Prober) { p.client.SetTimeout(d) }
}

func New(opts ...Option) *Prober {
	p := &Prober{
		client: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/scim+json, application/json"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type serviceProviderConfig struct {
	DocumentationURI string `json:"documentationUri"`
	Patch            struct {
		Supported bool `json:"supported"`
	} `json:"patch"`
}

type resourceTypeList struct {
	TotalResults int `json:"totalResults"`
	Resources    []struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
	} `json:"Resources"`
}

func (p *Prober) Discover(ctx context.Context, cfg domain.ServerConfig) (ports.ServerInfo, error) {
	base := strings.TrimRight(cfg.Endpoint, "/")
	if base == "" {
		return ports.ServerInfo{}, &domain.OpError{
			Op:   "scimdiscovery.discover",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%w: endpoint is empty", domain.ErrInvalidConfig),
		}
	}

	var spc serviceProviderConfig
	if err := p.get(ctx, cfg, base+"/ServiceProviderConfig", &spc); err != nil {
		return ports.ServerInfo{}, err
	}

	var types resourceTypeList
	if err := p.get(ctx, cfg, base+"/ResourceTypes", &types); err != nil {
		return ports.ServerInfo{}, err
	}

	info := ports.ServerInfo{
		Endpoint:      base,
		Documentation: spc.DocumentationURI,
	}
	for _, rt := range types.Resources {
		info.ResourceTypes = append(info.ResourceTypes, rt.Name)
		if kind, ok := kindByResourceType[rt.Name]; ok {
			if p, ok := domain.ProfileFor(kind); ok {
				info.NavLabels = append(info.NavLabels, p.NavLabel)
			}
		}
	}
	sort.Strings(info.ResourceTypes)
	sort.Strings(info.NavLabels)
	return info, nil
}

func (p *Prober) get(ctx context.Context, cfg domain.ServerConfig, url string, out any) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(cfg.APIKey).
		SetResult(out).
		Get(url)
	if err != nil {
		return &domain.OpError{Op: "scimdiscovery.get", Kind: domain.KindExecution, Path: url, Err: err}
	}
	if resp.IsError() {
		return &domain.OpError{
			Op:   "scimdiscovery.get",
			Kind: domain.KindExecution,
			Path: url,
			Err:  fmt.Errorf("server returned %d", resp.StatusCode()),
		}
	}
	return nil
}
