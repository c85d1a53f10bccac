package domain

import "time"

// ScenarioState is one node of the per-scenario state machine:
//
//	Unconfigured → Configuring → {Configured, ConfigError}
//	→ Listing → {Populated, Empty} → Creating → {Created, ValidationError}
//
// ConfigError, ValidationError, Created, Populated and Empty are terminal.
type ScenarioState string

const (
	StateUnconfigured    ScenarioState = "Unconfigured"
	StateConfiguring     ScenarioState = "Configuring"
	StateConfigured      ScenarioState = "Configured"
	StateConfigError     ScenarioState = "ConfigError"
	StateListing         ScenarioState = "Listing"
	StatePopulated       ScenarioState = "Populated"
	StateEmpty           ScenarioState = "Empty"
	StateCreating        ScenarioState = "Creating"
	StateCreated         ScenarioState = "Created"
	StateValidationError ScenarioState = "ValidationError"
)

// Condition names an observable state of the surface a bounded wait can
// block on.
type Condition string

const (
	// CondConfigured: the post-configuration navigation indicator is present.
	CondConfigured Condition = "configured"
	// CondConfigError: a distinguishable configuration error indicator is shown.
	CondConfigError Condition = "config_error"
	// CondListOrEmpty: a populated-list or empty-state indicator resolved.
	CondListOrEmpty Condition = "list_or_empty"
	// CondPopulated: a populated list is shown.
	CondPopulated Condition = "populated"
	// CondEmpty: the empty-state indicator is shown.
	CondEmpty Condition = "empty"
	// CondLoadingGone: the loading indicator has been replaced by content.
	CondLoadingGone Condition = "loading_gone"
	// CondCreatedOrList: a success indicator, or a return to list/empty state.
	CondCreatedOrList Condition = "created_or_list"
	// CondValidationError: a field or form level validation indicator is shown.
	CondValidationError Condition = "validation_error"
)

// Default bounded-wait timeouts per condition. A scenario step may override
// them, capped by MaxWaitTimeout.
const (
	DefaultConfigureTimeout = 10 * time.Second
	DefaultListTimeout      = 10 * time.Second
	DefaultLoadingTimeout   = 5 * time.Second
	DefaultValidateTimeout  = 5 * time.Second
	DefaultCreateTimeout    = 10 * time.Second
	MaxWaitTimeout          = 15 * time.Second
)

// DefaultTimeout returns the default bounded-wait timeout for a condition.
func (c Condition) DefaultTimeout() time.Duration {
	switch c {
	case CondConfigured, CondConfigError:
		return DefaultConfigureTimeout
	case CondLoadingGone:
		return DefaultLoadingTimeout
	case CondValidationError:
		return DefaultValidateTimeout
	case CondCreatedOrList:
		return DefaultCreateTimeout
	default:
		return DefaultListTimeout
	}
}

// KnownCondition reports whether c names a supported wait condition.
func KnownCondition(c Condition) bool {
	switch c {
	case CondConfigured, CondConfigError, CondListOrEmpty, CondPopulated,
		CondEmpty, CondLoadingGone, CondCreatedOrList, CondValidationError:
		return true
	}
	return false
}

// JSONPathCheck defines a JSONPath-based check against the inspector's
// captured response document.
type JSONPathCheck struct {
	Exists   bool
	Eq       *string
	Contains *string
}

// WaitStep blocks until a condition is observable, or fails the scenario
// after the bounded timeout.
type WaitStep struct {
	For     Condition
	Timeout time.Duration // zero means the condition default
}

// AssertStep checks the current surface snapshot. Zero-valued fields are not
// evaluated.
type AssertStep struct {
	HeadingContains string
	HeadingEquals   string
	NavContains     []string
	NavExactly      []string
	CreateTrigger   string
	ListEmpty       *bool
	ListPopulated   *bool
	InspectorShown  bool
	ConfigPanel     bool
	LoadingHidden   bool
	NoSuccessBanner bool
	ValidationFor   []string
	Inspector       map[string]JSONPathCheck
}

// IsZero reports whether the assert step carries no checks at all.
func (a AssertStep) IsZero() bool {
	return a.HeadingContains == "" && a.HeadingEquals == "" &&
		len(a.NavContains) == 0 && len(a.NavExactly) == 0 &&
		a.CreateTrigger == "" && a.ListEmpty == nil && a.ListPopulated == nil &&
		!a.InspectorShown && !a.ConfigPanel && !a.LoadingHidden &&
		!a.NoSuccessBanner && len(a.ValidationFor) == 0 && len(a.Inspector) == 0
}

// CreateStep opens the creation form via its trigger and submits the given
// field values. Missing required fields are legitimate: the validation-error
// scenarios rely on them.
type CreateStep struct {
	Kind   ResourceKind
	Fields map[string]string
}

// ExtractStep pulls values out of the inspector's response document into the
// scenario's runtime vars, keyed varName -> jsonpath expression.
type ExtractStep map[string]string

// Step is one sequential operation of a scenario. Exactly one of the fields
// is set.
type Step struct {
	Navigate string
	Wait     *WaitStep
	Assert   *AssertStep
	Create   *CreateStep
	Extract  ExtractStep
}

// Scenario is one independent, self-contained behavioral contract check.
// Every scenario establishes its own configured session, so scenarios are
// order-insensitive and safe to run in parallel.
type Scenario struct {
	Name        string
	Description string

	// Viewport defaults to ViewportDesktop when zero.
	Viewport Viewport

	// Config is submitted during setup. Placeholders are resolved against
	// the environment vars. When ExpectConfigError is set, the setup phase
	// waits for the error indicator instead of the configured state.
	Config            ServerConfig
	ExpectConfigError bool

	Steps []Step
}

// EffectiveViewport resolves the zero-value viewport to the desktop default.
func (s Scenario) EffectiveViewport() Viewport {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return ViewportDesktop
	}
	return s.Viewport
}

// ScenarioRef is a lightweight reference to a scenario file on disk.
type ScenarioRef struct {
	Name string
	Path string
}
