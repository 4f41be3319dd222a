package engine

import (
	"fmt"
	"os/exec"
	"strings"
)

var requiredTools = []string{"git"}

// checkRequirements reports missing external tools on stderr.
func (e *Engine) checkRequirements() bool {
	lookPath := e.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var missing []string
	for _, tool := range requiredTools {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) == 0 {
		return true
	}
	fmt.Fprintf(e.Stderr, "Error: Missing required tools: %s\n", strings.Join(missing, ", "))
	fmt.Fprintln(e.Stderr, "Please install git")
	return false
}
