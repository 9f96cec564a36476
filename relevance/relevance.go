// Package relevance computes per-feature gain-penalization coefficients.
//
// A coefficient interpolates between a flat baseline λ₀ and a normalized
// feature-relevance score:
//
//	coefficient_i = (1-γ)·λ₀ + γ·relevance_i
//
// with γ, λ₀ ∈ [0, 1) and relevance max-normalized to [0, 1], so every
// coefficient lies in [λ₀(1-γ), (1-γ)λ₀+γ) ⊆ [0, 1). Relevance comes either
// from a previously fitted model's importances or from the mutual
// information between each (discretized) feature and the target.
package relevance

import (
	"gonum.org/v1/gonum/floats"

	"github.com/gainpen/gainpen/pkg/errors"
)

// Normalize divides every relevance score by the maximum, so the most
// relevant feature scores exactly 1. When the maximum is zero the relevance
// is degenerate and a DegenerateRelevanceError carrying source is returned
// instead of a vector of NaNs.
func Normalize(rel []float64, source string) ([]float64, error) {
	if len(rel) == 0 {
		return nil, errors.ErrEmptyData
	}

	max := floats.Max(rel)
	if max <= 0 {
		return nil, errors.NewDegenerateRelevanceError(source, len(rel))
	}

	out := make([]float64, len(rel))
	for i, v := range rel {
		out[i] = v / max
	}
	return out, nil
}

// Mix blends the baseline λ₀ with already-normalized relevance scores.
// It is a pure function of its inputs.
func Mix(lambda0, gamma float64, norm []float64) ([]float64, error) {
	if lambda0 < 0 || lambda0 >= 1 {
		return nil, errors.NewInvalidHyperparameterError("lambda0", lambda0, "must lie in [0, 1)")
	}
	if gamma < 0 || gamma >= 1 {
		return nil, errors.NewInvalidHyperparameterError("gamma", gamma, "must lie in [0, 1)")
	}

	out := make([]float64, len(norm))
	for i, r := range norm {
		out[i] = (1-gamma)*lambda0 + gamma*r
	}
	return out, nil
}

// Coefficients normalizes rel and mixes it with the baseline in one step.
// source labels the relevance origin in a DegenerateRelevanceError.
func Coefficients(lambda0, gamma float64, rel []float64, source string) ([]float64, error) {
	norm, err := Normalize(rel, source)
	if err != nil {
		return nil, err
	}
	return Mix(lambda0, gamma, norm)
}

// Constant returns the recovery vector used when relevance is degenerate:
// every feature gets the baseline λ₀.
func Constant(lambda0 float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lambda0
	}
	return out
}

// FromImportance returns model-derived raw relevance: a copy of the fitted
// model's importance scores. Normalization happens in Coefficients.
func FromImportance(imp []float64) []float64 {
	out := make([]float64, len(imp))
	copy(out, imp)
	return out
}
