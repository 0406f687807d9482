package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCfgPath(t *testing.T) {
	// panic on empty
	assert.Panics(t, func() { GetCfgPath("") })

	// absolute path returns as-is
	abs := "/tmp/test.yaml"
	assert.Equal(t, abs, GetCfgPath(abs))

	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })

	tmp := t.TempDir()
	_ = os.Chdir(tmp)
	t.Setenv("CONFIG_DIR", "")

	// file in current directory
	f1 := "a.yaml"
	assert.NoError(t, os.WriteFile(f1, []byte("x"), 0o644))
	got := GetCfgPath(f1)
	exp, _ := filepath.EvalSymlinks(filepath.Join(tmp, f1))
	realGot, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, exp, realGot)

	// ./configs second
	_ = os.Remove(filepath.Join(tmp, f1))
	_ = os.MkdirAll("configs", 0o755)
	assert.NoError(t, os.WriteFile(filepath.Join("configs", f1), []byte("x"), 0o644))
	got = GetCfgPath(f1)
	exp, _ = filepath.EvalSymlinks(filepath.Join(tmp, "configs", f1))
	realGot, _ = filepath.EvalSymlinks(got)
	assert.Equal(t, exp, realGot)

	// fallback when not found
	_ = os.Remove(filepath.Join(tmp, "configs", f1))
	assert.Equal(t, filepath.Join("/etc/openai-mcp", f1), GetCfgPath(f1))
}

func TestGetCfgPath_ConfigDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("x"), 0o644))
	t.Setenv("CONFIG_DIR", dir)

	got := GetCfgPath("b.yaml")
	exp, _ := filepath.EvalSymlinks(filepath.Join(dir, "b.yaml"))
	realGot, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, exp, realGot)
}

func TestGetPIDPath(t *testing.T) {
	assert.Equal(t, "/tmp/xx.pid", GetPIDPath("/tmp/xx.pid"))
	assert.Equal(t, "/var/run/openai-mcp.pid", GetPIDPath(""))

	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	tmp := t.TempDir()
	_ = os.Chdir(tmp)
	got := GetPIDPath("proc.pid")
	exp, _ := filepath.EvalSymlinks(filepath.Join(tmp, "proc.pid"))
	realGot, _ := filepath.EvalSymlinks(filepath.Dir(got))
	assert.Equal(t, filepath.Dir(exp), realGot)
}
