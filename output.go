package main

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	IR_SUFFIX   = ".ir"
	LLVM_SUFFIX = ".ll"
	LOCK_FILE   = ".lock"
)

// writeOutputs writes the IR dump and, when ll is not empty, the LLVM module
// for assembly into dir. A file lock keeps concurrent builds into the same
// directory from interleaving. It returns the written paths.
func writeOutputs(dir, assembly, irText, ll string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", dir)
	}

	lock := flock.New(filepath.Join(dir, LOCK_FILE))
	if err := lock.Lock(); err != nil {
		return nil, errors.Wrapf(err, "acquire output lock in %s", dir)
	}
	defer lock.Unlock()

	outputs := []struct {
		suffix, text string
	}{
		{IR_SUFFIX, irText},
		{LLVM_SUFFIX, ll},
	}
	var written []string
	for _, out := range outputs {
		if out.text == "" {
			continue
		}
		path := filepath.Join(dir, assembly+out.suffix)
		if err := os.WriteFile(path, []byte(out.text), 0644); err != nil {
			return written, errors.Wrapf(err, "write %s", path)
		}
		glog.V(1).Infof("wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}
