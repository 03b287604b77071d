package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dir is the on-disk prefab directory, relative to the working directory.
// Files there shadow the embedded copies.
const Dir = "prefabs"

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

func Load(name string) ([]byte, error) {
	return readShadowed(PrefabsFS, specPath(name))
}

// LoadScript reads an accessory script by name ("retaliate",
// "scripts/retaliate.tengo" and "prefabs/scripts/retaliate.tengo" are all
// the same script).
func LoadScript(name string) ([]byte, error) {
	return readShadowed(ScriptsFS, scriptPath(name))
}

// ScriptNames lists every script known to the embedded set or the disk
// directory, without extension.
func ScriptNames() []string {
	seen := map[string]bool{}
	add := func(p string) {
		if strings.HasSuffix(p, ".tengo") {
			seen[strings.TrimSuffix(path.Base(p), ".tengo")] = true
		}
	}
	if entries, err := fs.ReadDir(ScriptsFS, "scripts"); err == nil {
		for _, e := range entries {
			add(e.Name())
		}
	}
	if entries, err := os.ReadDir(filepath.Join(Dir, "scripts")); err == nil {
		for _, e := range entries {
			add(e.Name())
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(specPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func readShadowed(embedded embed.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return embedded.ReadFile(clean)
}

func specPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, Dir+"/")
	return s
}

func scriptPath(name string) string {
	s := specPath(name)
	s = strings.TrimPrefix(s, "scripts/")
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}
	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
