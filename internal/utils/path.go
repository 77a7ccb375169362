package utils

import (
	"os"
	"path/filepath"
)

// PathResolver resolves paths relative to the running binary's directory.
type PathResolver struct {
	executableDir string
}

// NewPathResolver locates the running executable, resolving any symlinks
// to find its real directory.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}
	return &PathResolver{executableDir: filepath.Dir(execPath)}, nil
}

// ResolveRelativePath resolves relativePath against the executable's
// directory, leaving an already-absolute path untouched.
func (pr *PathResolver) ResolveRelativePath(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(pr.executableDir, relativePath)
}
