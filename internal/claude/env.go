package claude

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// cleanTmpDir isolates CLI temp files from editor sockets in the shared
// TMPDIR, which crash the CLI when --settings is used.
var cleanTmpDir = filepath.Join(os.TempDir(), "adhdscreen-claude")

// SetCleanEnv gives cmd the current environment with TMPDIR pointed at a
// dedicated directory.
func SetCleanEnv(cmd *exec.Cmd) {
	os.MkdirAll(cleanTmpDir, 0755)

	env := os.Environ()
	found := false
	for i, kv := range env {
		if strings.HasPrefix(kv, "TMPDIR=") {
			env[i] = "TMPDIR=" + cleanTmpDir
			found = true
			break
		}
	}
	if !found {
		env = append(env, "TMPDIR="+cleanTmpDir)
	}
	cmd.Env = env
}
