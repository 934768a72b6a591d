package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// Output writes dump files on a fixed step cadence and logs field
// diagnostics. A zero frequency disables file output but keeps the
// diagnostics log.
type Output struct {
	Directory string
	Frequency int
	Log       *logrus.Logger
	dumpCount int
}

func NewOutput(directory string, frequency int, log *logrus.Logger) (o *Output, err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if frequency > 0 {
		if err = os.MkdirAll(directory, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	o = &Output{
		Directory: directory,
		Frequency: frequency,
		Log:       log,
	}
	return
}

// Due reports whether the given step is on the dump cadence.
func (o *Output) Due(step int) bool {
	return o.Frequency > 0 && step%o.Frequency == 0
}

// Dump logs diagnostics for every dumpable field and, when due, writes a new
// dump file holding those fields plus the reference profiles.
func (o *Output) Dump(s *State) error {
	fields := s.Xn.DumpFields()
	for _, f := range fields {
		o.Log.WithFields(logrus.Fields{
			"time":  s.Time,
			"step":  s.Step,
			"field": f.Name,
			"min":   f.Min(),
			"max":   f.Max(),
			"rms":   f.RMS(),
			"l2":    f.L2(),
			"total": f.Integral(),
		}).Info("field diagnostics")
	}
	if !o.Due(s.Step) {
		return nil
	}
	// sorted so files list variables in the same order every time
	names := make([]string, 0, len(s.References))
	for name := range s.References {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields = append(fields, s.References[name])
	}
	path := filepath.Join(o.Directory, fmt.Sprintf("dump_%06d.nc", o.dumpCount))
	if err := WriteCheckpoint(path, fields, s.Time, s.Step); err != nil {
		return err
	}
	o.dumpCount++
	o.Log.WithFields(logrus.Fields{
		"time": s.Time,
		"step": s.Step,
		"file": path,
	}).Info("wrote dump file")
	return nil
}
