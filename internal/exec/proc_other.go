//go:build !unix

package exec

import osexec "os/exec"

// setProcessGroup is a no-op where process groups are unavailable; the
// WaitDelay backstop still unblocks Wait after cancellation.
func setProcessGroup(_ *osexec.Cmd) {}
