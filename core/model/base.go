// Package model holds the fitted-state tracking shared by estimators. The
// forest classifier embeds BaseEstimator so Predict, Score and the importance
// accessors can refuse to run before Fit.
package model

// EstimatorState is the lifecycle state of an estimator.
type EstimatorState int

const (
	// NotFitted means Fit has not completed yet.
	NotFitted EstimatorState = iota
	// Fitted means Fit completed and the estimator is usable.
	Fitted
)

// BaseEstimator is embedded by estimators to track whether they are fitted.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted. Called at the end of a successful
// Fit.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the not-fitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
