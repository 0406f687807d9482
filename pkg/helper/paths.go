package helper

import (
	"os"
	"path/filepath"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
)

const (
	defaultCfgDir  = "/etc/openai-mcp"
	defaultPIDPath = "/var/run/openai-mcp.pid"
)

// GetCfgPath returns the path to the configuration file.
//
// Priority:
// 1. If filename is an absolute path, return it directly.
// 2. $CONFIG_DIR/{filename} when CONFIG_DIR is set and the file exists
// 3. Check ./{filename} and ./configs/{filename}
// 4. Otherwise, fallback to /etc/openai-mcp/{filename}
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}

	if filepath.IsAbs(filename) {
		return filename
	}

	if dir := os.Getenv(cnst.EnvConfigDir); dir != "" {
		if p := existing(filepath.Join(dir, filename)); p != "" {
			return p
		}
	}

	if wd, err := os.Getwd(); err == nil && wd != "" {
		for _, candidate := range []string{
			filepath.Join(wd, filename),
			filepath.Join(wd, "configs", filename),
		} {
			if p := existing(candidate); p != "" {
				return p
			}
		}
	}

	return filepath.Join(defaultCfgDir, filename)
}

// GetPIDPath returns the path to the PID file. Relative names resolve under
// the working directory when its parent exists, otherwise the system default.
func GetPIDPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	if filename != "" {
		if abs, err := filepath.Abs(filename); err == nil {
			if _, err := os.Stat(filepath.Dir(abs)); err == nil {
				return abs
			}
		}
	}
	return defaultPIDPath
}

func existing(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return abs
}
