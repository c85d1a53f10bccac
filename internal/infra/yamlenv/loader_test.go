package yamlenv

import (
	"os"
	"path/filepath"
	"testing"
)

func newEnvDir(t *testing.T) (string, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ws")
	envDir := filepath.Join(root, "env")
	if err := os.MkdirAll(envDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return root, envDir
}

func TestLoadEnvironment_MergesSecrets(t *testing.T) {
	root, envDir := newEnvDir(t)

	if err := os.WriteFile(filepath.Join(envDir, "local.yaml"), []byte("vars:\n  endpoint: http://localhost:7001/scim-identifier/test-hr-server/scim/v2\n  api_key: base\n"), 0o644); err != nil {
		t.Fatalf("write local: %v", err)
	}
	if err := os.WriteFile(filepath.Join(envDir, "secrets.local.yaml"), []byte("vars:\n  api_key: api-key-12345\n"), 0o644); err != nil {
		t.Fatalf("write secrets: %v", err)
	}

	l := NewLoader(root)
	env, err := l.LoadEnvironment("local")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}

	if env.Vars["endpoint"] != "http://localhost:7001/scim-identifier/test-hr-server/scim/v2" {
		t.Fatalf("expected endpoint, got=%s", env.Vars["endpoint"])
	}
	if env.Vars["api_key"] != "api-key-12345" {
		t.Fatalf("expected api_key override, got=%s", env.Vars["api_key"])
	}
}

func TestLoadEnvironment_SecretsMissing(t *testing.T) {
	root, envDir := newEnvDir(t)

	if err := os.WriteFile(filepath.Join(envDir, "local.yaml"), []byte("vars:\n  endpoint: http://localhost:7001\n"), 0o644); err != nil {
		t.Fatalf("write local: %v", err)
	}

	l := NewLoader(root)
	env, err := l.LoadEnvironment("local")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}

	if env.Vars["endpoint"] != "http://localhost:7001" {
		t.Fatalf("expected endpoint, got=%s", env.Vars["endpoint"])
	}
}

func TestLoadEnvironment_EnvMissing(t *testing.T) {
	root, _ := newEnvDir(t)

	l := NewLoader(root)
	_, err := l.LoadEnvironment("staging")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadEnvironment_SupportsYML(t *testing.T) {
	root, envDir := newEnvDir(t)

	if err := os.WriteFile(filepath.Join(envDir, "staging.yml"), []byte("vars:\n  endpoint: https://scim.example.com\n"), 0o644); err != nil {
		t.Fatalf("write staging: %v", err)
	}

	l := NewLoader(root)
	env, err := l.LoadEnvironment("staging")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}

	if env.Name != "staging" {
		t.Fatalf("expected name=staging, got=%s", env.Name)
	}
	if env.Vars["endpoint"] != "https://scim.example.com" {
		t.Fatalf("expected endpoint, got=%s", env.Vars["endpoint"])
	}
}

func TestLoadEnvironment_ByPath(t *testing.T) {
	root, envDir := newEnvDir(t)

	p := filepath.Join(envDir, "ci.yaml")
	if err := os.WriteFile(p, []byte("vars:\n  endpoint: http://scim-fixtures:7001\n"), 0o644); err != nil {
		t.Fatalf("write ci: %v", err)
	}

	l := NewLoader(root)
	env, err := l.LoadEnvironment(p)
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}
	if env.Name != "ci" {
		t.Fatalf("expected name=ci, got=%s", env.Name)
	}
}

func TestListEnvironments(t *testing.T) {
	root, envDir := newEnvDir(t)

	for name, content := range map[string]string{
		"local.yaml":         "vars:\n  endpoint: http://localhost:7001\n",
		"staging.yaml":       "vars:\n  endpoint: https://scim.example.com\n",
		"secrets.local.yaml": "vars:\n  api_key: api-key-12345\n",
		"notes.txt":          "not an environment",
	} {
		if err := os.WriteFile(filepath.Join(envDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	l := NewLoader(root)
	refs, err := l.ListEnvironments(root)
	if err != nil {
		t.Fatalf("ListEnvironments error: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got=%d (%+v)", len(refs), refs)
	}
	if refs[0].Name != "local" || refs[1].Name != "staging" {
		t.Fatalf("refs=%+v", refs)
	}
}
