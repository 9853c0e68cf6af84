package prebuild

import (
	"io"
	"os"
	"path/filepath"

	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

// writeArtifact writes content to path through a temporary file in the same
// directory, so path is either fully written or left as it was.
func writeArtifact(path, content string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.IO, err, "create "+path)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.WriteString(tmp, content); err != nil {
		tmp.Close()
		return errors.Wrap(errors.IO, err, "write "+path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.IO, err, "close "+path)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrap(errors.IO, err, "chmod "+path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.IO, err, "rename "+path)
	}
	return nil
}
