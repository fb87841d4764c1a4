package dispatch

import "syscall"

var syscallExec = syscall.Exec

// execBinary replaces the current process with the target binary. The child
// inherits the process id, so its exit status becomes govm's exit status.
func execBinary(path string, args []string, env []string) error {
	return syscallExec(path, args, env)
}
