package reportstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
)

const defaultReportsDir = "reports"
const maskValue = "********"

type JSONStore struct {
	rootDir        string
	reportsDirName string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: reports/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	reportsDir := cfg.Paths.ReportsDir
	if strings.TrimSpace(reportsDir) == "" {
		reportsDir = defaultReportsDir
	}

	s := &JSONStore{
		rootDir:        root,
		reportsDirName: reportsDir,
		maskingEnabled: cfg.Masking.Enabled,
		writeIndex:     false,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

func (s *JSONStore) SaveSuite(artifact domain.SuiteArtifact) (string, error) {
	dir := filepath.Join(s.rootDir, s.reportsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := artifact.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := artifact
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	slug := slugify(artifact.SuiteName)
	if slug == "" {
		slug = "suite"
	}

	filename := fmt.Sprintf("%s_%s.json", ts.Format("20060102T150405Z"), slug)
	id := strings.TrimSuffix(filename, ".json")
	path := filepath.Join(dir, filename)

	toSave.ID = id
	if s.maskingEnabled {
		toSave = maskArtifact(toSave)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "reportstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, id, filename, artifact)
	}

	return id, nil
}

func (s *JSONStore) appendIndex(dir, id, filename string, artifact domain.SuiteArtifact) error {
	type idx struct {
		ID        string    `json:"id"`
		File      string    `json:"file"`
		Suite     string    `json:"suite"`
		Env       string    `json:"env"`
		StartedAt time.Time `json:"started_at"`
		Scenarios int       `json:"scenarios"`
		Failures  int       `json:"failures"`
	}

	failures := 0
	for _, r := range artifact.Scenarios {
		if r.Failed() {
			failures++
		}
	}

	line, err := json.Marshal(idx{
		ID:        id,
		File:      filename,
		Suite:     artifact.SuiteName,
		Env:       artifact.EnvironmentName,
		StartedAt: artifact.StartedAt,
		Scenarios: len(artifact.Scenarios),
		Failures:  failures,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// maskArtifact returns a masked copy (does NOT mutate the input). Extracted
// vars that look like credentials are masked; the suite-level client URL and
// scenario config never carry the API key into the artifact in the first
// place.
func maskArtifact(artifact domain.SuiteArtifact) domain.SuiteArtifact {
	out := artifact
	out.Scenarios = make([]domain.ScenarioResult, 0, len(artifact.Scenarios))

	for _, sr := range artifact.Scenarios {
		c := sr
		c.Extracted = cloneVars(sr.Extracted)
		c.Checks = cloneChecks(sr.Checks)
		c.Extracts = cloneExtracts(sr.Extracts)

		for k := range c.Extracted {
			if isSensitiveKey(k) {
				c.Extracted[k] = maskValue
			}
		}
		for i := range c.Checks {
			c.Checks[i].Message = maskInline(c.Checks[i].Message)
		}

		out.Scenarios = append(out.Scenarios, c)
	}

	return out
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "api_key") ||
		strings.Contains(kk, "apikey")
}

// maskInline hides api-key-shaped values that leaked into check messages.
func maskInline(msg string) string {
	lower := strings.ToLower(msg)
	for _, marker := range []string{"api-key-", "apikey=", "api_key="} {
		if i := strings.Index(lower, marker); i >= 0 {
			end := i + len(marker)
			for end < len(msg) && !isDelim(msg[end]) {
				end++
			}
			return msg[:i] + maskValue + msg[end:]
		}
	}
	return msg
}

func isDelim(b byte) bool {
	switch b {
	case ' ', '"', '\'', ',', ';', ')', ']', '}':
		return true
	}
	return false
}

func cloneVars(in domain.Vars) domain.Vars {
	if in == nil {
		return domain.Vars{}
	}
	out := domain.Vars{}
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneChecks(in []domain.CheckResult) []domain.CheckResult {
	if in == nil {
		return []domain.CheckResult{}
	}
	out := make([]domain.CheckResult, len(in))
	copy(out, in)
	return out
}

func cloneExtracts(in []domain.ExtractResult) []domain.ExtractResult {
	if in == nil {
		return []domain.ExtractResult{}
	}
	out := make([]domain.ExtractResult, len(in))
	copy(out, in)
	return out
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	return out
}
