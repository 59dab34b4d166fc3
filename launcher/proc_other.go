//go:build !unix

package launcher

import (
	"fmt"
	"os"
)

func signalName(*os.ProcessState) (string, bool) {
	return "", false
}

// CheckExecutable reports whether path is a regular file. Windows decides
// executability by extension, which ResolveBinaryPath already appends.
func CheckExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}
