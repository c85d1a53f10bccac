// Package yamlscenario loads scenario files from the workspace. Decoding is
// strict: unknown keys fail the load, so typos in scenario files surface as
// load errors instead of silently skipped checks.
package yamlscenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
)

type Loader struct {
	scenariosDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{scenariosDir: "scenarios"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithScenariosDir(dir string) Option {
	return func(l *Loader) { l.scenariosDir = dir }
}

var _ ports.ScenarioLoader = (*Loader)(nil)

func (l *Loader) LoadScenario(path string) (domain.Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Scenario{}, &domain.OpError{
			Op:   "yamlscenario.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	ys, err := decodeStrict(b)
	if err != nil {
		return domain.Scenario{}, &domain.OpError{
			Op:   "yamlscenario.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, ys)
}

func (l *Loader) ListScenarios(root string) ([]domain.ScenarioRef, error) {
	dir := filepath.Join(root, l.scenariosDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlscenario.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.ScenarioRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readScenarioName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.ScenarioRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readScenarioName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

func decodeStrict(b []byte) (yamlScenario, error) {
	var ys yamlScenario
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&ys); err != nil {
		if errors.Is(err, io.EOF) {
			return yamlScenario{}, errors.New("scenario file is empty")
		}
		return yamlScenario{}, err
	}
	return ys, nil
}

type yamlScenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Viewport    yamlViewport `yaml:"viewport"`
	Config      yamlConfig   `yaml:"config"`
	ExpectError bool         `yaml:"expect_config_error"`
	Steps       []yamlStep   `yaml:"steps"`
}

// yamlViewport accepts either a preset name ("desktop", "mobile") or explicit
// dimensions.
type yamlViewport struct {
	preset string
	width  int
	height int
}

func (v *yamlViewport) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		v.preset = strings.ToLower(strings.TrimSpace(s))
		return nil
	case yaml.MappingNode:
		var dims struct {
			Width  int `yaml:"width"`
			Height int `yaml:"height"`
		}
		if err := node.Decode(&dims); err != nil {
			return err
		}
		v.width, v.height = dims.Width, dims.Height
		return nil
	default:
		return fmt.Errorf("viewport must be a preset name or a width/height mapping")
	}
}

func (v yamlViewport) resolve() (domain.Viewport, error) {
	switch v.preset {
	case "", "desktop":
		if v.width > 0 && v.height > 0 {
			return domain.Viewport{Width: v.width, Height: v.height}, nil
		}
		return domain.ViewportDesktop, nil
	case "mobile":
		return domain.ViewportMobile, nil
	default:
		return domain.Viewport{}, fmt.Errorf("unknown viewport preset %q", v.preset)
	}
}

type yamlConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type yamlStep struct {
	Navigate string            `yaml:"navigate"`
	Wait     *yamlWait         `yaml:"wait"`
	Assert   *yamlAssert       `yaml:"assert"`
	Create   *yamlCreate       `yaml:"create"`
	Extract  map[string]string `yaml:"extract"`
}

type yamlWait struct {
	For     string `yaml:"for"`
	Timeout string `yaml:"timeout"`
}

type yamlAssert struct {
	HeadingContains string   `yaml:"heading_contains"`
	HeadingEquals   string   `yaml:"heading_equals"`
	NavContains     []string `yaml:"nav_contains"`
	NavExactly      []string `yaml:"nav_exactly"`
	CreateTrigger   string   `yaml:"create_trigger"`
	ListEmpty       *bool    `yaml:"list_empty"`
	ListPopulated   *bool    `yaml:"list_populated"`
	InspectorShown  bool     `yaml:"inspector_shown"`
	ConfigPanel     bool     `yaml:"config_panel"`
	LoadingHidden   bool     `yaml:"loading_hidden"`
	NoSuccessBanner bool     `yaml:"no_success_banner"`
	ValidationFor   []string `yaml:"validation_for"`

	Inspector map[string]yamlJSONPathCheck `yaml:"inspector"`
}

type yamlJSONPathCheck struct {
	Exists   bool    `yaml:"exists"`
	Eq       *string `yaml:"eq"`
	Contains *string `yaml:"contains"`
}

type yamlCreate struct {
	Kind   string            `yaml:"kind"`
	Fields map[string]string `yaml:"fields"`
}

func mapAndValidate(path string, ys yamlScenario) (domain.Scenario, error) {
	if strings.TrimSpace(ys.Name) == "" {
		return domain.Scenario{}, invalidField(path, "name", "scenario name is required")
	}

	vp, err := ys.Viewport.resolve()
	if err != nil {
		return domain.Scenario{}, invalidField(path, "viewport", err.Error())
	}

	sc := domain.Scenario{
		Name:        ys.Name,
		Description: ys.Description,
		Viewport:    vp,
		Config: domain.ServerConfig{
			Endpoint: ys.Config.Endpoint,
			APIKey:   ys.Config.APIKey,
		},
		ExpectConfigError: ys.ExpectError,
		Steps:             make([]domain.Step, 0, len(ys.Steps)),
	}

	for i, s := range ys.Steps {
		fieldPrefix := fmt.Sprintf("steps[%d]", i)

		step, err := mapStep(path, fieldPrefix, s)
		if err != nil {
			return domain.Scenario{}, err
		}
		sc.Steps = append(sc.Steps, step)
	}

	return sc, nil
}

func mapStep(path, fieldPrefix string, s yamlStep) (domain.Step, error) {
	set := 0
	if s.Navigate != "" {
		set++
	}
	if s.Wait != nil {
		set++
	}
	if s.Assert != nil {
		set++
	}
	if s.Create != nil {
		set++
	}
	if len(s.Extract) > 0 {
		set++
	}
	if set != 1 {
		return domain.Step{}, invalidField(path, fieldPrefix,
			fmt.Sprintf("exactly one of navigate/wait/assert/create/extract is required, got %d", set))
	}

	switch {
	case s.Navigate != "":
		return domain.Step{Navigate: s.Navigate}, nil

	case s.Wait != nil:
		cond := domain.Condition(strings.TrimSpace(s.Wait.For))
		if !domain.KnownCondition(cond) {
			return domain.Step{}, invalidField(path, fieldPrefix+".wait.for",
				fmt.Sprintf("unknown condition %q", s.Wait.For))
		}

		var timeout time.Duration
		if strings.TrimSpace(s.Wait.Timeout) != "" {
			d, err := time.ParseDuration(s.Wait.Timeout)
			if err != nil {
				return domain.Step{}, invalidField(path, fieldPrefix+".wait.timeout", err.Error())
			}
			if d <= 0 || d > domain.MaxWaitTimeout {
				return domain.Step{}, invalidField(path, fieldPrefix+".wait.timeout",
					fmt.Sprintf("timeout must be within (0, %s]", domain.MaxWaitTimeout))
			}
			timeout = d
		}
		return domain.Step{Wait: &domain.WaitStep{For: cond, Timeout: timeout}}, nil

	case s.Assert != nil:
		a := domain.AssertStep{
			HeadingContains: s.Assert.HeadingContains,
			HeadingEquals:   s.Assert.HeadingEquals,
			NavContains:     s.Assert.NavContains,
			NavExactly:      s.Assert.NavExactly,
			CreateTrigger:   s.Assert.CreateTrigger,
			ListEmpty:       s.Assert.ListEmpty,
			ListPopulated:   s.Assert.ListPopulated,
			InspectorShown:  s.Assert.InspectorShown,
			ConfigPanel:     s.Assert.ConfigPanel,
			LoadingHidden:   s.Assert.LoadingHidden,
			NoSuccessBanner: s.Assert.NoSuccessBanner,
			ValidationFor:   s.Assert.ValidationFor,
		}
		if len(s.Assert.Inspector) > 0 {
			a.Inspector = make(map[string]domain.JSONPathCheck, len(s.Assert.Inspector))
			for expr, c := range s.Assert.Inspector {
				a.Inspector[expr] = domain.JSONPathCheck{Exists: c.Exists, Eq: c.Eq, Contains: c.Contains}
			}
		}
		if a.IsZero() {
			return domain.Step{}, invalidField(path, fieldPrefix+".assert", "assert step carries no checks")
		}
		return domain.Step{Assert: &a}, nil

	case s.Create != nil:
		kind := domain.ResourceKind(strings.ToLower(strings.TrimSpace(s.Create.Kind)))
		if _, ok := domain.ProfileFor(kind); !ok {
			return domain.Step{}, invalidField(path, fieldPrefix+".create.kind",
				fmt.Sprintf("unknown resource kind %q", s.Create.Kind))
		}
		fields := s.Create.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		return domain.Step{Create: &domain.CreateStep{Kind: kind, Fields: fields}}, nil

	default:
		return domain.Step{Extract: domain.ExtractStep(s.Extract)}, nil
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlscenario.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
