package relevance

import (
	"math"
	"testing"

	"github.com/gainpen/gainpen/dataset"
	"github.com/gainpen/gainpen/pkg/errors"
)

func TestCoefficients_RangeBound(t *testing.T) {
	tests := []struct {
		name    string
		lambda0 float64
		gamma   float64
		rel     []float64
	}{
		{name: "mid", lambda0: 0.5, gamma: 0.5, rel: []float64{0.1, 0.4, 0.9, 0.2}},
		{name: "small lambda", lambda0: 0.1, gamma: 0.8, rel: []float64{3, 1, 2}},
		{name: "zero gamma", lambda0: 0.7, gamma: 0, rel: []float64{5, 0, 1}},
		{name: "zero lambda", lambda0: 0, gamma: 0.9, rel: []float64{0.01, 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coefs, err := Coefficients(tt.lambda0, tt.gamma, tt.rel, "test")
			if err != nil {
				t.Fatalf("Coefficients failed: %v", err)
			}

			lo := tt.lambda0 * (1 - tt.gamma)
			hi := (1-tt.gamma)*tt.lambda0 + tt.gamma
			for i, c := range coefs {
				if c < lo-1e-12 || c > hi+1e-12 {
					t.Errorf("coefficient[%d] = %v outside [%v, %v]", i, c, lo, hi)
				}
				if c < 0 || c >= 1 {
					t.Errorf("coefficient[%d] = %v outside [0, 1)", i, c)
				}
			}
		})
	}
}

func TestCoefficients_ScaleInvariant(t *testing.T) {
	rel := []float64{0.2, 1.3, 0.7, 2.1}
	scaled := make([]float64, len(rel))
	for i, v := range rel {
		scaled[i] = v * 1234.5
	}

	a, err := Coefficients(0.3, 0.6, rel, "test")
	if err != nil {
		t.Fatalf("Coefficients failed: %v", err)
	}
	b, err := Coefficients(0.3, 0.6, scaled, "test")
	if err != nil {
		t.Fatalf("Coefficients failed: %v", err)
	}

	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Errorf("coefficient[%d] changed under scaling: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestCoefficients_GammaZeroCollapsesToLambda(t *testing.T) {
	coefs, err := Coefficients(0.42, 0, []float64{9, 1, 0.5}, "test")
	if err != nil {
		t.Fatalf("Coefficients failed: %v", err)
	}
	for i, c := range coefs {
		if c != 0.42 {
			t.Errorf("coefficient[%d] = %v, want exactly 0.42", i, c)
		}
	}
}

func TestCoefficients_GammaNearOneTracksRelevance(t *testing.T) {
	rel := []float64{0.25, 0.5, 1.0}
	coefs, err := Coefficients(0.5, 0.999, rel, "test")
	if err != nil {
		t.Fatalf("Coefficients failed: %v", err)
	}
	for i, c := range coefs {
		if math.Abs(c-rel[i]) > 2e-3 {
			t.Errorf("coefficient[%d] = %v, want close to relevance %v", i, c, rel[i])
		}
	}
}

func TestCoefficients_DegenerateRelevance(t *testing.T) {
	_, err := Coefficients(0.5, 0.5, []float64{0, 0, 0}, "mutual_info")

	var target *errors.DegenerateRelevanceError
	if !errors.As(err, &target) {
		t.Fatalf("expected DegenerateRelevanceError, got %v", err)
	}
	if target.Source != "mutual_info" || target.NumFeatures != 3 {
		t.Errorf("unexpected fields: %+v", target)
	}
}

func TestMix_RejectsOutOfRangeParams(t *testing.T) {
	for _, args := range [][2]float64{{1.0, 0.5}, {-0.1, 0.5}, {0.5, 1.0}, {0.5, -0.2}} {
		if _, err := Mix(args[0], args[1], []float64{0.5}); err == nil {
			t.Errorf("Mix(%v, %v) should fail", args[0], args[1])
		}
	}
}

func TestConstant(t *testing.T) {
	c := Constant(0.3, 4)
	if len(c) != 4 {
		t.Fatalf("len = %d, want 4", len(c))
	}
	for i, v := range c {
		if v != 0.3 {
			t.Errorf("c[%d] = %v, want 0.3", i, v)
		}
	}
}

func TestDiscretize(t *testing.T) {
	got := Discretize([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 5)
	want := []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bins = %v, want %v", got, want)
		}
	}

	constant := Discretize([]float64{3, 3, 3}, 5)
	for _, b := range constant {
		if b != 0 {
			t.Errorf("constant column should map to bin 0, got %v", constant)
		}
	}
}

func TestMutualInfo_PerfectDependence(t *testing.T) {
	// x bin fully determines y: I(X;Y) = H(Y) = log 2
	x := []int{0, 0, 1, 1, 0, 0, 1, 1}
	y := []int{0, 0, 1, 1, 0, 0, 1, 1}

	mi := MutualInfo(x, y, 2, 2)
	if math.Abs(mi-math.Log(2)) > 1e-9 {
		t.Errorf("mi = %v, want log(2) = %v", mi, math.Log(2))
	}
}

func TestMutualInfo_Independence(t *testing.T) {
	x := []int{0, 1, 0, 1, 0, 1, 0, 1}
	y := []int{0, 0, 1, 1, 0, 0, 1, 1}

	mi := MutualInfo(x, y, 2, 2)
	if mi > 1e-9 {
		t.Errorf("mi = %v, want 0 for independent variables", mi)
	}
}

func TestFromMutualInfo_InformativeFeaturesScoreHigher(t *testing.T) {
	ds := dataset.MakeClassification(400, 6, 2, 17)

	rel, err := FromMutualInfo(ds, DefaultBins)
	if err != nil {
		t.Fatalf("FromMutualInfo failed: %v", err)
	}

	informative := (rel[0] + rel[1]) / 2
	noise := (rel[2] + rel[3] + rel[4] + rel[5]) / 4
	if informative <= noise {
		t.Errorf("informative MI %v should exceed noise MI %v", informative, noise)
	}

	for j, v := range rel {
		if v < 0 {
			t.Errorf("rel[%d] = %v, mutual information must be nonnegative", j, v)
		}
	}
}
