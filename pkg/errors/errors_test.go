package errors

import (
	"strings"
	"testing"
)

func TestDegenerateRelevanceError(t *testing.T) {
	err := NewDegenerateRelevanceError("mutual_info", 10)

	var target *DegenerateRelevanceError
	if !As(err, &target) {
		t.Fatalf("expected DegenerateRelevanceError, got %T", err)
	}
	if target.Source != "mutual_info" || target.NumFeatures != 10 {
		t.Errorf("unexpected fields: %+v", target)
	}
	if !strings.Contains(err.Error(), "degenerate") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestInvalidHyperparameterError(t *testing.T) {
	err := NewInvalidHyperparameterError("fraction", 0.01, "yields fewer than 1 feature per split")

	var target *InvalidHyperparameterError
	if !As(err, &target) {
		t.Fatalf("expected InvalidHyperparameterError, got %T", err)
	}
	if target.Param != "fraction" {
		t.Errorf("Param = %s, want fraction", target.Param)
	}
}

func TestEmptyFeatureSetError(t *testing.T) {
	err := NewEmptyFeatureSetError(3)

	var target *EmptyFeatureSetError
	if !As(err, &target) {
		t.Fatalf("expected EmptyFeatureSetError, got %T", err)
	}
	if target.Fold != 3 {
		t.Errorf("Fold = %d, want 3", target.Fold)
	}
}

func TestInsufficientFeaturesError(t *testing.T) {
	err := NewInsufficientFeaturesError(15, 8)

	var target *InsufficientFeaturesError
	if !As(err, &target) {
		t.Fatalf("expected InsufficientFeaturesError, got %T", err)
	}
	if target.Requested != 15 || target.Available != 8 {
		t.Errorf("unexpected fields: %+v", target)
	}
}

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("Classifier", "Predict")
	want := "gainpen: Classifier: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewDegenerateRelevanceError("importance", 4)
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	if !Is(captured, w) {
		t.Errorf("handler received %v, want %v", captured, w)
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewEmptyFeatureSetError(0)
	wrapped := Wrap(base, "reevaluation element skipped")

	var target *EmptyFeatureSetError
	if !As(wrapped, &target) {
		t.Fatal("wrapping lost the concrete error type")
	}
}
