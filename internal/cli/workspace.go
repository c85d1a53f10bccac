package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ltsch/scimcheck/internal/domain"
	"github.com/ltsch/scimcheck/internal/infra/config"
	"github.com/ltsch/scimcheck/internal/infra/reportstore"
	"github.com/ltsch/scimcheck/internal/infra/workspacefinder"
	"github.com/ltsch/scimcheck/internal/infra/yamlenv"
	"github.com/ltsch/scimcheck/internal/infra/yamlscenario"
	"github.com/ltsch/scimcheck/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	// clientURL is the SCIMCHECK_CLIENT_URL override; the environment's
	// client_url var is the fallback.
	clientURL string

	scenarios ports.ScenarioLoader
	scenCat   *yamlscenario.Loader

	envs       ports.EnvironmentLoader
	envCatalog ports.EnvironmentCatalog

	store ports.ReportStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	cfg, clientURL, err := config.Overlay(cfg)
	if err != nil {
		return nil, err
	}

	scenLoader := yamlscenario.NewLoader(
		yamlscenario.WithScenariosDir(cfg.Paths.ScenariosDir),
	)

	envLoader := yamlenv.NewLoader(
		root,
		yamlenv.WithEnvDir(cfg.Paths.EnvironmentsDir),
	)

	store := reportstore.NewJSONStore(root, cfg, reportstore.WithIndex(true))

	return &workspaceCtx{
		root:       root,
		cfg:        cfg,
		clientURL:  clientURL,
		scenarios:  scenLoader,
		scenCat:    scenLoader,
		envs:       envLoader,
		envCatalog: envLoader,
		store:      store,
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `scimcheck init`): %w", wd, err)
	}
	return root, nil
}

func resolveEnvironmentArg(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return ws.cfg.Defaults.Environment, nil
	}

	// If arg is a path, resolve relative to workspace root.
	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	// If user provided "local.yaml", treat it as file under env dir.
	if hasYAMLExt(in) {
		envDir := filepath.Join(ws.root, ws.cfg.Paths.EnvironmentsDir)
		return filepath.Join(envDir, in), nil
	}

	// Otherwise, treat it as an env name ("local") and let the loader
	// resolve it.
	return in, nil
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
