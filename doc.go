// Package gainpen implements regularized feature selection for binary
// classification with gain-penalized random forests.
//
// A penalization coefficient in [0, 1] is attached to every feature; during
// tree growth each candidate split's impurity gain is multiplied by its
// feature's coefficient before any comparison, so low-coefficient features
// must offer proportionally more gain to be chosen. Coefficients blend a
// constant baseline λ₀ with a normalized per-feature relevance score under a
// mixing weight γ.
//
// The pipeline has three stages:
//
//  1. Sweep: cross-validated grid search over split fraction, λ₀ and γ, with
//     relevance taken either from an unpenalized guide model's importances or
//     from mutual information.
//  2. Re-evaluation: the top-ranked feature sets of every fold are refitted
//     without penalization, restricted to exactly those features, on every
//     fold.
//  3. Consolidation: the most frequently selected features form the final
//     set, validated with a fresh cross-validation.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/gainpen/gainpen/dataset"
//	    "github.com/gainpen/gainpen/selection"
//	)
//
//	func main() {
//	    ds := dataset.MakeClassification(200, 10, 3, 42)
//
//	    result, err := selection.Run(selection.PipelineConfig{Seed: 42}, ds)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, fc := range result.Final.Features {
//	        fmt.Println(fc.Name, fc.Count)
//	    }
//	}
//
// The gainpen command wraps the same pipeline for CSV inputs; see cmd/gainpen.
package gainpen
