package action

import (
	"bytes"
	"context"
	"os/exec"
)

// shell abstracts running an external command so tests can stub output.
type shell interface {
	run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// execShell runs commands with os/exec. No timeout is imposed: installs and
// restores are allowed to take as long as they take.
type execShell struct{}

func (execShell) run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.String(), errOut.String(), err
}

// powershell runs a script through `powershell -Command`.
func powershell(ctx context.Context, sh shell, script string) (string, string, error) {
	return sh.run(ctx, "powershell", "-Command", script)
}
