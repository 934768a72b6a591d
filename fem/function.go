package fem

import (
	"fmt"
	"math"

	"github.com/gonwp/dycore/utils"
)

// Function is a discrete field on a Space. Scalar fields have one component;
// vector fields carry Dim nodal value matrices. Dump and Pickup mark whether
// the field participates in output files and restart files.
type Function struct {
	Name   string
	Sp     *Space
	Dim    int
	Val    []utils.Matrix // Dim matrices, each Np x K
	Dump   bool
	Pickup bool
}

func NewFunction(name string, sp *Space) (f *Function) {
	f = newFunction(name, sp, 1)
	return
}

func NewVectorFunction(name string, sp *Space, dim int) (f *Function) {
	if dim < 1 {
		panic(fmt.Errorf("vector field %q needs at least one component, have %d", name, dim))
	}
	f = newFunction(name, sp, dim)
	return
}

func newFunction(name string, sp *Space, dim int) (f *Function) {
	f = &Function{
		Name:   name,
		Sp:     sp,
		Dim:    dim,
		Val:    make([]utils.Matrix, dim),
		Dump:   true,
		Pickup: true,
	}
	for d := 0; d < dim; d++ {
		f.Val[d] = sp.NewStorage()
	}
	return
}

// Data is the nodal values of the first (or only) component.
func (f *Function) Data() utils.Matrix { return f.Val[0] }

// Clone allocates a structurally identical field, optionally renamed, with
// zeroed values.
func (f *Function) Clone(name string) (g *Function) {
	g = newFunction(name, f.Sp, f.Dim)
	g.Dump, g.Pickup = f.Dump, f.Pickup
	return
}

func (f *Function) AssignFrom(g *Function) *Function {
	if f.Dim != g.Dim || !f.Sp.SameShape(g.Sp) {
		panic(fmt.Errorf("field %q cannot take values from %q: incompatible shape", f.Name, g.Name))
	}
	for d := range f.Val {
		f.Val[d].AssignFrom(g.Val[d])
	}
	return f
}

// Project sets the field's nodal values by evaluating fn at the node
// coordinates, one callback per component.
func (f *Function) Project(fns ...func(x float64) float64) *Function {
	if len(fns) != f.Dim {
		panic(fmt.Errorf("field %q has %d components, got %d projection callbacks", f.Name, f.Dim, len(fns)))
	}
	for d, fn := range fns {
		for i, x := range f.Sp.X.DataP {
			f.Val[d].DataP[i] = fn(x)
		}
	}
	return f
}

func (f *Function) Zero() *Function {
	for d := range f.Val {
		f.Val[d].Zero()
	}
	return f
}

func (f *Function) Scale(a float64) *Function {
	for d := range f.Val {
		f.Val[d].Scale(a)
	}
	return f
}

func (f *Function) Add(g *Function) *Function {
	for d := range f.Val {
		f.Val[d].Add(g.Val[d])
	}
	return f
}

func (f *Function) Subtract(g *Function) *Function {
	for d := range f.Val {
		f.Val[d].Subtract(g.Val[d])
	}
	return f
}

func (f *Function) AddScaled(g *Function, a float64) *Function {
	for d := range f.Val {
		f.Val[d].AddScaled(g.Val[d], a)
	}
	return f
}

func (f *Function) Min() (min float64) {
	min = math.Inf(1)
	for d := range f.Val {
		if v := f.Val[d].Min(); v < min {
			min = v
		}
	}
	return
}

func (f *Function) Max() (max float64) {
	max = math.Inf(-1)
	for d := range f.Val {
		if v := f.Val[d].Max(); v > max {
			max = v
		}
	}
	return
}

// Integral is the domain integral of the field, summed over components.
func (f *Function) Integral() (total float64) {
	for d := range f.Val {
		total += f.Sp.Integral(f.Val[d])
	}
	return
}

// L2 is the domain L2 norm of the field.
func (f *Function) L2() float64 {
	var total float64
	sq := f.Sp.NewStorage()
	for d := range f.Val {
		sq.AssignFrom(f.Val[d]).ElMul(f.Val[d])
		total += f.Sp.Integral(sq)
	}
	return math.Sqrt(total)
}

// RMS is the root mean square of the nodal values across all components.
func (f *Function) RMS() float64 {
	var (
		total float64
		n     int
	)
	for d := range f.Val {
		for _, v := range f.Val[d].DataP {
			total += v * v
			n++
		}
	}
	return math.Sqrt(total / float64(n))
}
