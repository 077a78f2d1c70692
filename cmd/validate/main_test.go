package main

import (
	"os"
	"path/filepath"
	"testing"
)

const cleanScene = `id: quiet-pond
name: Quiet Pond
actors:
  - id: lin
    name: Lin Yue
    resources:
      hp: {value: 10, max: 10}
tokens:
  - {id: t-lin, name: Lin Yue, actor_id: lin, disposition: 1}
`

func writeScene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{
			name:    "clean scene",
			path:    func(t *testing.T) string { return writeScene(t, "quiet-pond.yaml", cleanScene) },
			wantErr: false,
		},
		{
			name:    "experimental prefix",
			path:    func(t *testing.T) string { return writeScene(t, "x.quiet-pond.yml", cleanScene) },
			wantErr: false,
		},
		{
			name:    "snake case filename",
			path:    func(t *testing.T) string { return writeScene(t, "Quiet_Pond.yaml", cleanScene) },
			wantErr: true,
		},
		{
			name:    "unsupported extension",
			path:    func(t *testing.T) string { return writeScene(t, "quiet-pond.txt", cleanScene) },
			wantErr: true,
		},
		{
			name:    "broken pinned moves",
			path:    func(t *testing.T) string { return "../../pkg/scene/testdata/bamboo-grove.yaml" },
			wantErr: true,
		},
		{
			name: "bad ids",
			path: func(t *testing.T) string {
				return writeScene(t, "bad-ids.yaml", "id: Bad_Scene\ntokens:\n  - {id: T1, name: x}\n")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &SceneValidator{}
			err := v.validateFile(tt.path(t))
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidID(t *testing.T) {
	for _, id := range []string{"t-lin", "bandit", "sword-art", "ng-1", "m1"} {
		if !isValidID(id) {
			t.Errorf("isValidID(%q) = false, want true", id)
		}
	}
	for _, id := range []string{"T-Lin", "sword_art", "-lead", "trail-"} {
		if isValidID(id) {
			t.Errorf("isValidID(%q) = true, want false", id)
		}
	}
}
