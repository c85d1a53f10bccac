package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ltsch/scimcheck/internal/catalog"
	"github.com/ltsch/scimcheck/internal/domain"
)

// gatherScenarios resolves -s selectors into concrete scenarios. With no
// selectors the built-in catalog runs first, followed by every workspace
// scenario file. A selector is tried as a catalog name, then a workspace
// scenario name or file, then a path.
func gatherScenarios(ws *workspaceCtx, selectors []string) ([]domain.Scenario, error) {
	if len(selectors) == 0 {
		scenarios := catalog.Suite()

		refs, err := ws.scenCat.ListScenarios(ws.root)
		if err != nil {
			// A workspace without a scenarios dir still runs the catalog.
			if domain.IsKind(err, domain.KindNotFound) {
				return scenarios, nil
			}
			return nil, err
		}
		for _, ref := range refs {
			sc, err := ws.scenarios.LoadScenario(ref.Path)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, sc)
		}
		return scenarios, nil
	}

	var scenarios []domain.Scenario
	for _, sel := range selectors {
		sc, err := resolveScenario(ws, sel)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func resolveScenario(ws *workspaceCtx, selector string) (domain.Scenario, error) {
	in := strings.TrimSpace(selector)
	if in == "" {
		return domain.Scenario{}, fmt.Errorf("empty scenario selector")
	}

	if sc, ok := catalog.ByName(in); ok {
		return sc, nil
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return ws.scenarios.LoadScenario(filepath.Clean(p))
	}

	scenariosDir := filepath.Join(ws.root, ws.cfg.Paths.ScenariosDir)

	if hasYAMLExt(in) {
		return ws.scenarios.LoadScenario(filepath.Join(scenariosDir, in))
	}

	if p := filepath.Join(scenariosDir, in+".yaml"); fileExists(p) {
		return ws.scenarios.LoadScenario(p)
	}
	if p := filepath.Join(scenariosDir, in+".yml"); fileExists(p) {
		return ws.scenarios.LoadScenario(p)
	}

	// As a last resort: match by the scenario "name" field.
	refs, err := ws.scenCat.ListScenarios(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return ws.scenarios.LoadScenario(r.Path)
			}
		}
	}

	return domain.Scenario{}, fmt.Errorf("scenario %q not found (catalog names: %s)",
		in, strings.Join(catalog.SortedNames(), ", "))
}
