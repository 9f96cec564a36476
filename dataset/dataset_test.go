package dataset

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gainpen/gainpen/pkg/errors"
)

func TestNew_Binary(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
	})
	ds, err := New(x, []string{"a", "b", "a", "b"}, []string{"f1", "f2"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if ds.NumSamples() != 4 || ds.NumFeatures() != 2 {
		t.Errorf("dims = (%d, %d), want (4, 2)", ds.NumSamples(), ds.NumFeatures())
	}
	if got := ds.Labels(); got[0] != 0 || got[1] != 1 || got[2] != 0 || got[3] != 1 {
		t.Errorf("labels = %v, want [0 1 0 1]", got)
	}
}

func TestNew_RejectsNonBinary(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	_, err := New(x, []string{"a", "b", "c"}, []string{"f1"})
	if !errors.Is(err, errors.ErrNotBinary) {
		t.Fatalf("expected ErrNotBinary, got %v", err)
	}
}

func TestSubsetAndSelect(t *testing.T) {
	x := mat.NewDense(4, 3, []float64{
		1, 10, 100,
		2, 20, 200,
		3, 30, 300,
		4, 40, 400,
	})
	ds, err := New(x, []string{"a", "a", "b", "b"}, []string{"f1", "f2", "f3"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sub := ds.Subset([]int{2, 0})
	if sub.NumSamples() != 2 {
		t.Fatalf("subset rows = %d, want 2", sub.NumSamples())
	}
	if got := sub.X().At(0, 1); got != 30 {
		t.Errorf("subset[0][f2] = %v, want 30", got)
	}
	if got := sub.Labels(); got[0] != 1 || got[1] != 0 {
		t.Errorf("subset labels = %v, want [1 0]", got)
	}

	sel, err := ds.Select([]string{"f3", "f1"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.NumFeatures() != 2 {
		t.Fatalf("selected features = %d, want 2", sel.NumFeatures())
	}
	if got := sel.X().At(1, 0); got != 200 {
		t.Errorf("selected[1][f3] = %v, want 200", got)
	}
	if got := sel.FeatureNames(); got[0] != "f3" || got[1] != "f1" {
		t.Errorf("selected names = %v, want [f3 f1]", got)
	}

	if _, err := ds.Select([]string{"nope"}); err == nil {
		t.Error("Select with unknown name should fail")
	}
}

func TestKFold_CoverageAndDisjointness(t *testing.T) {
	const n = 103
	kf := NewKFold(5, 42)
	folds := kf.Split(n)

	if len(folds) != 5 {
		t.Fatalf("got %d folds, want 5", len(folds))
	}

	seen := make(map[int]int)
	for _, fold := range folds {
		if len(fold.Train)+len(fold.Test) != n {
			t.Errorf("train+test = %d, want %d", len(fold.Train)+len(fold.Test), n)
		}

		inTest := make(map[int]bool)
		for _, idx := range fold.Test {
			inTest[idx] = true
			seen[idx]++
		}
		for _, idx := range fold.Train {
			if inTest[idx] {
				t.Fatalf("index %d appears in both train and test", idx)
			}
		}
	}

	// union of test subsets, with multiplicity, equals the dataset
	if len(seen) != n {
		t.Errorf("test union covers %d rows, want %d", len(seen), n)
	}
	for idx, ct := range seen {
		if ct != 1 {
			t.Errorf("row %d appears in %d test sets, want 1", idx, ct)
		}
	}
}

func TestKFold_SeedReproducible(t *testing.T) {
	a := NewKFold(4, 7).Split(50)
	b := NewKFold(4, 7).Split(50)

	for i := range a {
		for j := range a[i].Test {
			if a[i].Test[j] != b[i].Test[j] {
				t.Fatalf("fold %d differs between runs with same seed", i)
			}
		}
	}

	c := NewKFold(4, 8).Split(50)
	same := true
	for i := range a {
		for j := range a[i].Test {
			if a[i].Test[j] != c[i].Test[j] {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds produced identical partitions")
	}
}

func TestFromCSV(t *testing.T) {
	in := strings.NewReader("f1,label,f2\n1.5,yes,2\n2.5,no,3\n0.5,yes,4\n")
	ds, err := FromCSV(in, "label")
	if err != nil {
		t.Fatalf("FromCSV failed: %v", err)
	}

	if ds.NumSamples() != 3 || ds.NumFeatures() != 2 {
		t.Fatalf("dims = (%d, %d), want (3, 2)", ds.NumSamples(), ds.NumFeatures())
	}
	if got := ds.FeatureNames(); got[0] != "f1" || got[1] != "f2" {
		t.Errorf("names = %v, want [f1 f2]", got)
	}
	if got := ds.X().At(2, 1); got != 4 {
		t.Errorf("X[2][f2] = %v, want 4", got)
	}
}

func TestFromCSV_MissingTarget(t *testing.T) {
	in := strings.NewReader("f1,f2\n1,2\n")
	if _, err := FromCSV(in, "label"); err == nil {
		t.Fatal("expected error for missing target column")
	}
}

func TestMakeClassification(t *testing.T) {
	ds := MakeClassification(100, 10, 2, 99)
	if ds.NumSamples() != 100 || ds.NumFeatures() != 10 {
		t.Fatalf("dims = (%d, %d), want (100, 10)", ds.NumSamples(), ds.NumFeatures())
	}
	if len(ds.Classes()) != 2 {
		t.Fatalf("classes = %v, want 2 classes", ds.Classes())
	}

	again := MakeClassification(100, 10, 2, 99)
	if ds.X().At(57, 3) != again.X().At(57, 3) {
		t.Error("same seed produced different data")
	}
}
