package physics

import (
	"math"

	"github.com/gonwp/dycore/fem"
	"github.com/gonwp/dycore/state"
)

// Kessler-type warm rain coefficients.
const (
	k1Auto        = 0.001 // autoconversion rate coefficient
	k2Collect     = 2.2   // collection rate coefficient
	autoThreshold = 0.001 // cloud water content needed before autoconversion
)

// Coalescence converts cloud water to rain through both collection and
// autoconversion, with the combined rate capped so cloud water stays
// non-negative.
type Coalescence struct {
	Sp *fem.Space
	Dt float64
}

func NewCoalescence(sp *fem.Space, dt float64) *Coalescence {
	return &Coalescence{Sp: sp, Dt: dt}
}

func (p *Coalescence) Apply(x *state.MixedState) {
	var (
		dt     = p.Dt
		waterC = x.MustField("water_c").Data()
		rain   = x.MustField("rain").Data()
	)
	for i := range waterC.DataP {
		wc, r := waterC.DataP[i], rain.DataP[i]
		rate := k2Collect*wc*math.Pow(r, 0.875) + k1Auto*(wc-autoThreshold)
		if rate < 0 {
			rate = 0
		} else if lim := wc / dt; rate > lim {
			rate = lim
		}
		waterC.DataP[i] = wc - dt*rate
		rain.DataP[i] = r + dt*rate
	}
}

// Collection is the collection process alone.
type Collection struct {
	Sp *fem.Space
	Dt float64
}

func NewCollection(sp *fem.Space, dt float64) *Collection {
	return &Collection{Sp: sp, Dt: dt}
}

func (p *Collection) Apply(x *state.MixedState) {
	var (
		dt     = p.Dt
		waterC = x.MustField("water_c").Data()
		rain   = x.MustField("rain").Data()
	)
	for i := range waterC.DataP {
		wc, r := waterC.DataP[i], rain.DataP[i]
		rate := k2Collect * wc * math.Pow(r, 0.875)
		if rate > 0 {
			if lim := wc / dt; rate > lim {
				rate = lim
			}
		} else {
			rate = 0
		}
		waterC.DataP[i] = wc - dt*rate
		rain.DataP[i] = r + dt*rate
	}
}

// Autoconversion is the autoconversion process alone. Its rate may be
// negative, moving rain back to cloud water, capped so rain stays
// non-negative.
type Autoconversion struct {
	Sp *fem.Space
	Dt float64
}

func NewAutoconversion(sp *fem.Space, dt float64) *Autoconversion {
	return &Autoconversion{Sp: sp, Dt: dt}
}

func (p *Autoconversion) Apply(x *state.MixedState) {
	var (
		dt     = p.Dt
		waterC = x.MustField("water_c").Data()
		rain   = x.MustField("rain").Data()
	)
	for i := range waterC.DataP {
		wc, r := waterC.DataP[i], rain.DataP[i]
		rate := k1Auto * (wc - autoThreshold)
		if rate > 0 {
			if lim := wc / dt; rate > lim {
				rate = lim
			}
		} else if lim := -r / dt; rate < lim {
			rate = lim
		}
		waterC.DataP[i] = wc - dt*rate
		rain.DataP[i] = r + dt*rate
	}
}
