package uisurface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
)

const (
	sessionHeader       = "X-Scim-Session"
	defaultMaxBodyBytes = 256 * 1024 // 256KB
)

// Driver creates sessions against one client origin.
type Driver struct {
	client       *http.Client
	baseURL      string
	maxBodyBytes int64
}

type Option func(*Driver)

func WithMaxBodyBytes(n int64) Option {
	return func(d *Driver) { d.maxBodyBytes = n }
}

func New(baseURL string, client *http.Client, opts ...Option) *Driver {
	d := &Driver{
		client:       client,
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ ports.Surface = (*Driver)(nil)

func (d *Driver) NewSession(ctx context.Context, vp domain.Viewport) (ports.Session, error) {
	payload := map[string]any{
		"viewport": map[string]int{"width": vp.Width, "height": vp.Height},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := d.do(ctx, http.MethodPost, "/e2e/session", "", payload, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, &domain.OpError{
			Op:   "uisurface.session",
			Kind: domain.KindSession,
			Err:  domain.ErrInvalidSession,
		}
	}

	return &session{driver: d, id: created.ID}, nil
}

type session struct {
	driver *Driver
	id     string
}

var _ ports.Session = (*session)(nil)

func (s *session) Configure(ctx context.Context, cfg domain.ServerConfig) error {
	return s.driver.do(ctx, http.MethodPost, "/e2e/config", s.id, map[string]string{
		"endpoint": cfg.Endpoint,
		"apiKey":   cfg.APIKey,
	}, nil)
}

func (s *session) Navigate(ctx context.Context, label string) error {
	return s.driver.do(ctx, http.MethodPost, "/e2e/navigate", s.id, map[string]string{
		"label": label,
	}, nil)
}

func (s *session) State(ctx context.Context) (domain.SurfaceState, error) {
	var dto stateDTO
	if err := s.driver.do(ctx, http.MethodGet, "/e2e/state", s.id, nil, &dto); err != nil {
		return domain.SurfaceState{}, err
	}
	return dto.toDomain(), nil
}

func (s *session) OpenCreate(ctx context.Context) error {
	return s.driver.do(ctx, http.MethodPost, "/e2e/form/open", s.id, map[string]string{}, nil)
}

func (s *session) SubmitCreate(ctx context.Context, fields map[string]string) error {
	return s.driver.do(ctx, http.MethodPost, "/e2e/form/submit", s.id, map[string]any{
		"fields": fields,
	}, nil)
}

func (s *session) Close() error {
	return s.driver.do(context.Background(), http.MethodDelete, "/e2e/session", s.id, nil, nil)
}

// do performs one bridge call with a bounded response read and decodes the
// body into out when non-nil.
func (d *Driver) do(ctx context.Context, method, path, sessionID string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return &domain.OpError{Op: "uisurface.encode", Kind: domain.KindExecution, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, body)
	if err != nil {
		return &domain.OpError{Op: "uisurface.request", Kind: domain.KindInvalidConfig, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err // left unwrapped so callers can classify net errors
	}
	defer resp.Body.Close()

	raw, truncated, err := readBounded(resp.Body, d.maxBodyBytes)
	if err != nil {
		return &domain.OpError{Op: "uisurface.read", Kind: domain.KindExecution, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.OpError{
			Op:   "uisurface." + strings.TrimPrefix(path, "/e2e/"),
			Kind: domain.KindSession,
			Err:  fmt.Errorf("bridge returned %d: %s", resp.StatusCode, snippet(raw)),
		}
	}

	if out == nil {
		return nil
	}
	if truncated {
		return &domain.OpError{
			Op:   "uisurface.read",
			Kind: domain.KindExecution,
			Err:  fmt.Errorf("bridge response exceeded %d bytes", d.maxBodyBytes),
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.OpError{Op: "uisurface.decode", Kind: domain.KindExecution, Err: err}
	}
	return nil
}

func readBounded(r io.Reader, maxBytes int64) ([]byte, bool, error) {
	lim := io.LimitReader(r, maxBytes+1)
	b, err := io.ReadAll(lim)
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > maxBytes {
		return b[:maxBytes], true, nil
	}
	return b, false, nil
}

func snippet(b []byte) string {
	const n = 200
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// stateDTO is the wire shape of the /e2e/state document.
type stateDTO struct {
	Path        string   `json:"path"`
	Configured  bool     `json:"configured"`
	ConfigError string   `json:"configError"`
	Loading     bool     `json:"loading"`
	Heading     string   `json:"heading"`
	Navigation  []string `json:"navigation"`
	Controls    []string `json:"controls"`

	List *struct {
		Count int  `json:"count"`
		Empty bool `json:"empty"`
	} `json:"list"`

	Form *struct {
		Title      string            `json:"title"`
		Fields     []string          `json:"fields"`
		Validation map[string]string `json:"validation"`
	} `json:"form"`

	Banner *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"banner"`

	Inspector *struct {
		Method   string          `json:"method"`
		URL      string          `json:"url"`
		Status   int             `json:"status"`
		Request  json.RawMessage `json:"request"`
		Response json.RawMessage `json:"response"`
	} `json:"inspector"`
}

func (d stateDTO) toDomain() domain.SurfaceState {
	st := domain.SurfaceState{
		Path:        d.Path,
		Configured:  d.Configured,
		ConfigError: d.ConfigError,
		Loading:     d.Loading,
		Heading:     d.Heading,
		Navigation:  d.Navigation,
		Controls:    d.Controls,
	}

	if d.List != nil {
		st.List = &domain.ListState{Count: d.List.Count, Empty: d.List.Empty}
	}
	if d.Form != nil {
		st.Form = &domain.FormState{
			Title:      d.Form.Title,
			Fields:     d.Form.Fields,
			Validation: d.Form.Validation,
		}
	}
	if d.Banner != nil {
		st.Banner = &domain.Banner{
			Kind:    domain.BannerKind(d.Banner.Kind),
			Message: d.Banner.Message,
		}
	}
	if d.Inspector != nil {
		st.Inspector = &domain.InspectorState{
			Method:   d.Inspector.Method,
			URL:      d.Inspector.URL,
			Status:   d.Inspector.Status,
			Request:  d.Inspector.Request,
			Response: d.Inspector.Response,
		}
	}
	return st
}
