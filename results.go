package gammadust

import (
	"github.com/maseology/objfunc"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Residuals summarises a model against observations: root-mean-square error,
// bias as a fraction of the observed total, and the Nash-Sutcliffe efficiency.
func Residuals(model, observed []float64) (rmse, bias, nse float64) {
	return objfunc.RMSE(observed, model), objfunc.Bias(observed, model), objfunc.NSE(observed, model)
}

// Report logs the loss trajectory of a fit.
func (r *FitResult) Report(log logrus.FieldLogger) {
	if len(r.History) == 0 {
		log.Warn(" fit: no iterations")
		return
	}
	m, sd := stat.MeanStdDev(r.History, nil)
	gain := 0.
	if h0 := r.History[0]; h0 != 0. {
		gain = 1. - r.Loss/h0
	}
	log.WithFields(logrus.Fields{
		"iterations": r.Iterations,
		"converged":  r.Converged,
	}).Infof("  A: %.5g  B: %.4f  C: %.4f  loss: %.4g  (mean %.4g, sd %.4g, reduced %.1f%%)",
		r.Shape.A, r.Shape.B, r.Shape.C, r.Loss, m, sd, 100.*gain)
}
