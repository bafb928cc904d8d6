package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Dir is the on-disk prefab directory that overrides the embedded copies.
var Dir = "prefabs"

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}
	s := cleanPrefabPath(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
