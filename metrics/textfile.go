package metrics

import (
	"bufio"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/lockbank/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteTextfile writes all metrics gathered by g to path using the prometheus
// text exposition format. The file is replaced atomically so that a collector
// reading it never sees a partial write.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}

	tmp, err := ioutil.TempFile(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "metrics file: %s", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			tmp.Close()
			return errors.Wrapf(errors.ErrInput, "metrics file: %s", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrInput, "metrics file: %s", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrInput, "metrics file: %s", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrInput, "metrics file: %s", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(errors.ErrInput, "metrics file: %s", err)
	}
	return nil
}
