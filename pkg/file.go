package pkg

import (
	"os"
	"path/filepath"
	"strings"
)

const TempFileInfix = ".tmp-"

// WriteFileAtomic writes data to a temp file next to {path} and renames it
// over {path}. Readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+TempFileInfix+"*")
	if err != nil {
		return err
	}
	tmp_name := tmp.Name()
	defer os.Remove(tmp_name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp_name, perm); err != nil {
		return err
	}
	return os.Rename(tmp_name, path)
}

// IsTempFileOf reports whether {name} is a leftover temp file of WriteFileAtomic
// for a file ending in {suffix}.
func IsTempFileOf(name, suffix string) bool {
	if !strings.HasPrefix(name, ".") {
		return false
	}
	i := strings.Index(name, TempFileInfix)
	return i > 0 && strings.HasSuffix(name[:i], suffix)
}
