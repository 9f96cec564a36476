// Package dataset provides the tabular data model consumed by the selection
// pipeline: a numeric feature matrix with named columns and a binary target.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gainpen/gainpen/pkg/errors"
)

// Dataset is an immutable table of labeled observations: one categorical
// target with exactly two classes and many numeric feature columns.
type Dataset struct {
	x       *mat.Dense
	y       []int    // class ids, 0 or 1
	classes []string // class id -> original label
	names   []string // feature names, column order
}

// New creates a Dataset from a feature matrix, string labels and feature
// names. The target must have exactly two classes.
func New(x *mat.Dense, labels []string, names []string) (*Dataset, error) {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.ErrEmptyData
	}
	if len(labels) != rows {
		return nil, errors.NewDimensionError("dataset.New", rows, len(labels), 0)
	}
	if len(names) != cols {
		return nil, errors.NewDimensionError("dataset.New", cols, len(names), 1)
	}

	// recode labels with integer ids
	y := make([]int, len(labels))
	uniq := make(map[string]int)
	var classes []string
	for i, val := range labels {
		id, ok := uniq[val]
		if !ok {
			id = len(uniq)
			uniq[val] = id
			classes = append(classes, val)
		}
		y[i] = id
	}

	if len(classes) != 2 {
		return nil, errors.Wrapf(errors.ErrNotBinary, "got %d classes", len(classes))
	}

	return &Dataset{x: x, y: y, classes: classes, names: names}, nil
}

// fromIDs builds a Dataset without revalidating the class count. Used by
// Subset and Select, which cannot change it for the training side but may
// drop a class from a small test slice; the pipeline never refits on those.
func fromIDs(x *mat.Dense, y []int, classes, names []string) *Dataset {
	return &Dataset{x: x, y: y, classes: classes, names: names}
}

// NumSamples returns the number of rows.
func (d *Dataset) NumSamples() int {
	r, _ := d.x.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (d *Dataset) NumFeatures() int {
	_, c := d.x.Dims()
	return c
}

// FeatureNames returns the feature names in column order.
func (d *Dataset) FeatureNames() []string {
	return d.names
}

// Classes returns the original target labels indexed by class id.
func (d *Dataset) Classes() []string {
	return d.classes
}

// X returns the feature matrix.
func (d *Dataset) X() mat.Matrix {
	return d.x
}

// Labels returns the class id for each row.
func (d *Dataset) Labels() []int {
	return d.y
}

// FeatureIndex returns the column index of the named feature.
func (d *Dataset) FeatureIndex(name string) (int, bool) {
	for i, n := range d.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Column copies the values of feature column j into a new slice.
func (d *Dataset) Column(j int) []float64 {
	out := make([]float64, d.NumSamples())
	mat.Col(out, j, d.x)
	return out
}

// Subset returns a new Dataset holding the given rows, in order. The
// receiver is not modified.
func (d *Dataset) Subset(rows []int) *Dataset {
	_, cols := d.x.Dims()
	x := mat.NewDense(len(rows), cols, nil)
	y := make([]int, len(rows))
	for i, r := range rows {
		x.SetRow(i, d.x.RawRowView(r))
		y[i] = d.y[r]
	}
	return fromIDs(x, y, d.classes, d.names)
}

// Select returns a new Dataset restricted to exactly the named features, in
// the given order. Unknown names are an error.
func (d *Dataset) Select(features []string) (*Dataset, error) {
	if len(features) == 0 {
		return nil, errors.NewValidationError("features", "must not be empty", features)
	}

	idx := make([]int, len(features))
	for i, name := range features {
		j, ok := d.FeatureIndex(name)
		if !ok {
			return nil, errors.NewValidationError("features", "unknown feature name", name)
		}
		idx[i] = j
	}

	rows := d.NumSamples()
	x := mat.NewDense(rows, len(idx), nil)
	for i := 0; i < rows; i++ {
		for k, j := range idx {
			x.Set(i, k, d.x.At(i, j))
		}
	}

	y := make([]int, rows)
	copy(y, d.y)

	return fromIDs(x, y, d.classes, features), nil
}

// RawRows copies the feature matrix into a row-major [][]float64. The tree
// splitter sorts column buffers in place and wants plain slices.
func (d *Dataset) RawRows() [][]float64 {
	rows, cols := d.x.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		copy(row, d.x.RawRowView(i))
		out[i] = row
	}
	return out
}
