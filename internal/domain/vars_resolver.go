package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VarResolver resolves {{var}} placeholders in scenario strings. It supports
// the built-ins {{$timestamp}} and {{$uuid}}.
type VarResolver struct {
	now   func() time.Time
	newID func() string
}

// VarResolverOption configures VarResolver.
type VarResolverOption func(*VarResolver)

// WithNow overrides the clock (useful for tests).
func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

// WithUUID overrides UUID generation (useful for tests).
func WithUUID(gen func() string) VarResolverOption {
	return func(r *VarResolver) { r.newID = gen }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RuntimeResolver caches built-ins for a single scenario run so repeated
// {{$uuid}} occurrences inside one scenario stay consistent.
type RuntimeResolver struct {
	base     Vars
	builtins Vars
	inner    *VarResolver
}

func (r *VarResolver) NewRuntime(vars Vars) *RuntimeResolver {
	baseCopy := Vars{}
	for k, v := range vars {
		baseCopy[k] = v
	}

	return &RuntimeResolver{
		base: baseCopy,
		builtins: Vars{
			"$timestamp": strconv.FormatInt(r.now().Unix(), 10),
			"$uuid":      r.newID(),
		},
		inner: r,
	}
}

// Put adds a runtime var (e.g. a value pulled from the inspector) for later
// steps of the same scenario.
func (rr *RuntimeResolver) Put(key, value string) {
	rr.base[key] = value
}

// ResolveString resolves placeholders in a string.
func (rr *RuntimeResolver) ResolveString(s string) (string, error) {
	return rr.inner.resolveStringWith(rr.base, rr.builtins, s)
}

// ResolveConfig resolves placeholders in a configuration payload.
func (rr *RuntimeResolver) ResolveConfig(cfg ServerConfig) (ServerConfig, error) {
	endpoint, err := rr.ResolveString(cfg.Endpoint)
	if err != nil {
		return ServerConfig{}, wrapField(err, "config.endpoint")
	}
	apiKey, err := rr.ResolveString(cfg.APIKey)
	if err != nil {
		return ServerConfig{}, wrapField(err, "config.api_key")
	}
	return ServerConfig{Endpoint: endpoint, APIKey: apiKey}, nil
}

// ResolveFields resolves placeholders in creation-form field values.
// It returns a copy (does not mutate input).
func (rr *RuntimeResolver) ResolveFields(fields map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		rv, err := rr.ResolveString(v)
		if err != nil {
			return nil, wrapField(err, "create.fields."+k)
		}
		out[k] = rv
	}
	return out, nil
}

func (r *VarResolver) resolveStringWith(vars Vars, builtins Vars, s string) (string, error) {
	// Fast path: no token start.
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			start := i + 2

			end := strings.Index(s[start:], "}}")
			if end < 0 {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("unclosed placeholder"),
				}
			}
			end = start + end

			name := strings.TrimSpace(s[start:end])
			if name == "" {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("empty placeholder"),
				}
			}

			val, ok := builtins[name]
			if !ok {
				val, ok = vars[name]
			}
			if !ok {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindMissingVar,
					Err:  fmt.Errorf("missing variable: %s", name),
				}
			}

			b.WriteString(val)
			i = end + 2
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String(), nil
}

func wrapField(err error, field string) error {
	// Keep Kind information, but add context about which field was being resolved.
	return &OpError{
		Op:   "vars.resolve",
		Kind: kindFrom(err),
		Err:  fmt.Errorf("%s: %w", field, err),
	}
}

func kindFrom(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}
