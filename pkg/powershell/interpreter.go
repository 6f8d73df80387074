package powershell

import "os/exec"

// interpreterCandidates is the PATH lookup order when no interpreter is
// configured: PowerShell 7+ first, then Windows PowerShell.
var interpreterCandidates = []string{"pwsh", "powershell.exe", "powershell"}

// ResolveInterpreter picks the interpreter binary to use. A configured path
// wins unconditionally (it may be absolute and need no PATH lookup). With no
// configuration, the first candidate found on PATH is returned with
// found=true; otherwise the default candidate name is returned with
// found=false so the server can still start, list tools, and surface a
// spawn failure per call.
func ResolveInterpreter(configured string) (path string, found bool) {
	if configured != "" {
		return configured, true
	}
	for _, name := range interpreterCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, true
		}
	}
	return interpreterCandidates[0], false
}
