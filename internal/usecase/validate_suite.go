package usecase

import (
	"context"
	"fmt"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/ports"
)

// ValidateSuite loads scenarios and an environment and checks that every
// placeholder resolves and every step is well-formed, without touching the
// client surface.
type ValidateSuite struct {
	scenarios ports.ScenarioLoader
	envs      ports.EnvironmentLoader
}

func NewValidateSuite(sl ports.ScenarioLoader, el ports.EnvironmentLoader) *ValidateSuite {
	return &ValidateSuite{scenarios: sl, envs: el}
}

func (v *ValidateSuite) Execute(ctx context.Context, scenarioPaths []string, envNameOrPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env, err := v.envs.LoadEnvironment(envNameOrPath)
	if err != nil {
		return err
	}

	for _, path := range scenarioPaths {
		sc, err := v.scenarios.LoadScenario(path)
		if err != nil {
			return err
		}
		if err := ValidateScenario(sc, env.Vars); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScenario checks a scenario's internal consistency and that its
// placeholders resolve against the given vars.
func ValidateScenario(sc domain.Scenario, vars domain.Vars) error {
	fail := func(format string, args ...any) error {
		return &domain.OpError{
			Op:   "scenario.validate",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%s: %s", sc.Name, fmt.Sprintf(format, args...)),
		}
	}

	if sc.Name == "" {
		return &domain.OpError{
			Op:   "scenario.validate",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("scenario name is required"),
		}
	}
	if sc.Config.Endpoint == "" {
		return fail("config.endpoint is required")
	}

	rt := domain.NewVarResolver().NewRuntime(vars)
	if _, err := rt.ResolveConfig(sc.Config); err != nil {
		return err
	}

	for i, step := range sc.Steps {
		set := 0
		if step.Navigate != "" {
			set++
		}
		if step.Wait != nil {
			set++
			if !domain.KnownCondition(step.Wait.For) {
				return fail("steps[%d]: unknown wait condition %q", i, step.Wait.For)
			}
			if step.Wait.Timeout > domain.MaxWaitTimeout {
				return fail("steps[%d]: timeout %s exceeds maximum %s", i, step.Wait.Timeout, domain.MaxWaitTimeout)
			}
		}
		if step.Assert != nil {
			set++
			if step.Assert.IsZero() {
				return fail("steps[%d]: assert step carries no checks", i)
			}
		}
		if step.Create != nil {
			set++
			if _, ok := domain.ProfileFor(step.Create.Kind); !ok {
				return fail("steps[%d]: unknown resource kind %q", i, step.Create.Kind)
			}
			if _, err := rt.ResolveFields(step.Create.Fields); err != nil {
				return err
			}
		}
		if len(step.Extract) > 0 {
			set++
		}

		if set == 0 {
			return fail("steps[%d]: empty step", i)
		}
		if set > 1 {
			return fail("steps[%d]: step must set exactly one operation", i)
		}
	}

	return nil
}
