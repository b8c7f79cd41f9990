package gammadust

import (
	"fmt"
	"math"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/maseology/mmio"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/diff/fd"
)

// Objective is a mean-squared-error loss over the source shape.
type Objective interface {
	Loss(s Shape) (float64, error)
	// Gradient returns the loss and its exact derivative with respect to
	// (A, B, C).
	Gradient(s Shape) (float64, [3]float64, error)
}

// ProfileTarget compares the Bessel-series reconstruction of the shape at
// Radii [pc] with reference surface densities Values [pc⁻²].
type ProfileTarget struct {
	Proj   *Projector
	Radii  []float64
	Values []float64
}

func (t *ProfileTarget) check() error {
	if len(t.Radii) == 0 {
		return shapeErr("ProfileTarget", "radii", 1, 0)
	}
	if len(t.Values) != len(t.Radii) {
		return shapeErr("ProfileTarget", "values", len(t.Radii), len(t.Values))
	}
	return nil
}

func (t *ProfileTarget) Loss(s Shape) (float64, error) {
	if err := t.check(); err != nil {
		return 0., err
	}
	q, err := t.Proj.Project(s.Profile())
	if err != nil {
		return 0., err
	}
	f, err := t.Proj.Synthesize(q, t.Radii)
	if err != nil {
		return 0., err
	}
	return mse(f, t.Values), nil
}

func (t *ProfileTarget) Gradient(s Shape) (float64, [3]float64, error) {
	var g [3]float64
	if err := t.check(); err != nil {
		return 0., g, err
	}
	qs, err := t.Proj.ProjectMany(s.Profile(), s.Partial(0), s.Partial(1), s.Partial(2))
	if err != nil {
		return 0., g, err
	}
	f, err := t.Proj.Synthesize(qs[0], t.Radii)
	if err != nil {
		return 0., g, err
	}
	for k := range g {
		df, err := t.Proj.Synthesize(qs[k+1], t.Radii)
		if err != nil {
			return 0., g, err
		}
		g[k] = dmse(f, t.Values, df)
	}
	return mse(f, t.Values), g, nil
}

// MapTarget compares the full forward model with an observed gamma-ray map
// (sample, photon energy, pixel).
type MapTarget struct {
	Pipeline *Pipeline
	Observed *grid.Cube
}

func (t *MapTarget) check(m *grid.Cube) error {
	if t.Observed == nil {
		return shapeErr("MapTarget", "observed map", len(m.Data), 0)
	}
	if m.Shape() != t.Observed.Shape() {
		return fmt.Errorf("MapTarget: %w: model %v, observed %v", ErrShapeMismatch, m.Shape(), t.Observed.Shape())
	}
	return nil
}

func (t *MapTarget) Loss(s Shape) (float64, error) {
	if t.Pipeline == nil {
		return 0., fmt.Errorf("MapTarget: %w: no pipeline", ErrShapeMismatch)
	}
	m, err := t.Pipeline.GammaMap(s)
	if err != nil {
		return 0., err
	}
	if err := t.check(m); err != nil {
		return 0., err
	}
	return mse(m.Data, t.Observed.Data), nil
}

func (t *MapTarget) Gradient(s Shape) (float64, [3]float64, error) {
	var g [3]float64
	if t.Pipeline == nil {
		return 0., g, fmt.Errorf("MapTarget: %w: no pipeline", ErrShapeMismatch)
	}
	m, dm, err := t.Pipeline.gammaMap(s, true)
	if err != nil {
		return 0., g, err
	}
	if err := t.check(m); err != nil {
		return 0., g, err
	}
	for k := range g {
		g[k] = dmse(m.Data, t.Observed.Data, dm[k].Data)
	}
	return mse(m.Data, t.Observed.Data), g, nil
}

// mse is mean((f-obs)²).
func mse(f, obs []float64) float64 {
	s := 0.
	for i, v := range f {
		d := v - obs[i]
		s += d * d
	}
	return s / float64(len(f))
}

// dmse is the directional derivative of mse along df.
func dmse(f, obs, df []float64) float64 {
	s := 0.
	for i, v := range f {
		s += (v - obs[i]) * df[i]
	}
	return 2. * s / float64(len(f))
}

// FitStep takes one gradient-descent step theta - lr*grad, returning the
// new shape and the loss at theta.
func FitStep(obj Objective, theta Shape, lr [3]float64) (Shape, float64, error) {
	loss, g, err := obj.Gradient(theta)
	if err != nil {
		return theta, 0., err
	}
	v := theta.Vec()
	for k := range v {
		v[k] -= lr[k] * g[k]
	}
	return ShapeFrom(v), loss, nil
}

// FDGradient estimates the gradient of obj by central differences with
// steps relative to each parameter's magnitude.
func FDGradient(obj Objective, theta Shape, relStep float64) ([3]float64, error) {
	var g [3]float64
	x0 := theta.Vec()
	scale := make([]float64, len(x0))
	for k, v := range x0 {
		scale[k] = math.Abs(v)
		if scale[k] == 0. {
			scale[k] = 1.
		}
	}
	var ferr error
	f := func(u []float64) float64 {
		x := make([]float64, len(x0))
		for k := range x {
			x[k] = x0[k] + u[k]*scale[k]
		}
		l, err := obj.Loss(ShapeFrom(x))
		if err != nil && ferr == nil {
			ferr = err
		}
		return l
	}
	gu := fd.Gradient(nil, f, make([]float64, len(x0)), &fd.Settings{
		Formula: fd.Central,
		Step:    relStep,
	})
	if ferr != nil {
		return g, ferr
	}
	for k := range g {
		g[k] = gu[k] / scale[k]
	}
	return g, nil
}

// Fitter runs bounded gradient descent on an Objective.
type Fitter struct {
	Objective     Objective
	LearningRates [3]float64 // per parameter (A, B, C); zero: derived from RelStep
	RelStep       float64    // first step as a fraction of each parameter, when LearningRates is zero
	MaxIter       int
	Tol           float64 // stop when |Δloss| <= Tol*loss
	Log           logrus.FieldLogger
}

// FitResult is the outcome of Fitter.Fit.
type FitResult struct {
	Shape      Shape
	Loss       float64   // loss at Shape
	History    []float64 // loss before each step
	Iterations int
	Converged  bool
}

// Fit descends from theta. It returns ErrDiverged, together with the last
// finite state, as soon as the loss stops being finite.
func (f *Fitter) Fit(theta Shape) (*FitResult, error) {
	log := f.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if f.MaxIter < 1 {
		return nil, fmt.Errorf("Fit: %w: %d iterations", ErrNumericDomain, f.MaxIter)
	}
	tt := mmio.NewTimer()
	lr := f.LearningRates
	if lr == ([3]float64{}) {
		var err error
		if lr, err = f.initialRates(theta); err != nil {
			return nil, err
		}
		log.Debugf(" fit: learning rates %.4g", lr)
	}
	res := FitResult{Shape: theta, History: make([]float64, 0, f.MaxIter)}
	for i := 0; i < f.MaxIter; i++ {
		next, loss, err := FitStep(f.Objective, res.Shape, lr)
		if err != nil {
			return &res, err
		}
		if !finite(loss) || !finite(next.A) || !finite(next.B) || !finite(next.C) {
			return &res, fmt.Errorf("Fit: %w at iteration %d (loss %g)", ErrDiverged, i, loss)
		}
		res.History = append(res.History, loss)
		res.Iterations = i + 1
		log.WithFields(logrus.Fields{
			"iter": i,
			"loss": loss,
			"A":    res.Shape.A,
			"B":    res.Shape.B,
			"C":    res.Shape.C,
		}).Debug("fit step")
		if i > 0 && math.Abs(res.History[i-1]-loss) <= f.Tol*math.Abs(loss) {
			res.Converged = true
			break
		}
		res.Shape = next
	}

	loss, err := f.Objective.Loss(res.Shape)
	if err != nil {
		return &res, err
	}
	if !finite(loss) {
		return &res, fmt.Errorf("Fit: %w after %d iterations (loss %g)", ErrDiverged, res.Iterations, loss)
	}
	res.Loss = loss
	log.Infof(" fit: %d iterations, loss %.4g - %v", res.Iterations, loss, tt.Now())
	return &res, nil
}

// initialRates scales the learning rates so that the first step moves each
// parameter by RelStep of its magnitude.
func (f *Fitter) initialRates(theta Shape) ([3]float64, error) {
	var lr [3]float64
	if !(f.RelStep > 0.) {
		return lr, fmt.Errorf("Fit: %w: no learning rates and relative step %g", ErrNumericDomain, f.RelStep)
	}
	_, g, err := f.Objective.Gradient(theta)
	if err != nil {
		return lr, err
	}
	for k, v := range theta.Vec() {
		if g[k] != 0. {
			lr[k] = f.RelStep * math.Abs(v) / math.Abs(g[k])
		}
	}
	return lr, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
