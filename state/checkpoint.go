package state

import (
	"fmt"
	"os"

	"bitbucket.org/ctessum/cdf"

	"github.com/gonwp/dycore/fem"
)

// Checkpoint files are NetCDF classic with float64 variables so a dump and
// pickup cycle restores the state bit for bit.

func componentName(f *fem.Function, d int) string {
	if f.Dim == 1 {
		return f.Name
	}
	return fmt.Sprintf("%s_%d", f.Name, d)
}

// WriteCheckpoint writes the given fields to a new file at path, along with
// the model time and step for restart.
func WriteCheckpoint(path string, fields []*fem.Function, time float64, step int) error {
	if len(fields) == 0 {
		return fmt.Errorf("nothing to checkpoint")
	}
	sp := fields[0].Sp
	h := cdf.NewHeader([]string{"node", "element"}, []int{sp.Np, sp.K})
	h.AddAttribute("", "time", []float64{time})
	h.AddAttribute("", "step", []int32{int32(step)})
	for _, f := range fields {
		if !f.Sp.SameShape(sp) {
			return fmt.Errorf("field %q has a different shape than %q", f.Name, fields[0].Name)
		}
		for d := 0; d < f.Dim; d++ {
			h.AddVariable(componentName(f, d), []string{"node", "element"}, []float64{0})
		}
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating checkpoint file: %w", err)
	}
	defer w.Close()

	cf, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("writing checkpoint header: %w", err)
	}
	for _, f := range fields {
		for d := 0; d < f.Dim; d++ {
			name := componentName(f, d)
			end := cf.Header.Lengths(name)
			start := make([]int, len(end))
			if _, err = cf.Writer(name, start, end).Write(f.Val[d].DataP); err != nil {
				return fmt.Errorf("writing variable %s: %w", name, err)
			}
		}
	}
	if err = cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("finalising checkpoint file: %w", err)
	}
	return nil
}

// ReadCheckpoint restores the given fields in place from a checkpoint file
// and returns the model time and step recorded in it. Every requested field
// must be present with matching shape.
func ReadCheckpoint(path string, fields []*fem.Function) (time float64, step int, err error) {
	r, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening checkpoint file: %w", err)
	}
	defer r.Close()

	cf, err := cdf.Open(r)
	if err != nil {
		return 0, 0, fmt.Errorf("reading checkpoint header: %w", err)
	}
	time = cf.Header.GetAttribute("", "time").([]float64)[0]
	step = int(cf.Header.GetAttribute("", "step").([]int32)[0])

	for _, f := range fields {
		for d := 0; d < f.Dim; d++ {
			name := componentName(f, d)
			lens := cf.Header.Lengths(name)
			if len(lens) != 2 || lens[0] != f.Sp.Np || lens[1] != f.Sp.K {
				return 0, 0, fmt.Errorf("variable %s has dimensions %v, want [%d %d]",
					name, lens, f.Sp.Np, f.Sp.K)
			}
			if _, err = cf.Reader(name, nil, nil).Read(f.Val[d].DataP); err != nil {
				return 0, 0, fmt.Errorf("reading variable %s: %w", name, err)
			}
		}
	}
	return time, step, nil
}

// PickupFields filters a state's fields down to the ones that participate in
// restart files.
func (ms *MixedState) PickupFields() (fields []*fem.Function) {
	for _, f := range ms.Fields {
		if f.Pickup {
			fields = append(fields, f)
		}
	}
	return
}

// DumpFields filters down to the ones written to output files.
func (ms *MixedState) DumpFields() (fields []*fem.Function) {
	for _, f := range ms.Fields {
		if f.Dump {
			fields = append(fields, f)
		}
	}
	return
}
