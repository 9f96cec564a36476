package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/gainpen/gainpen/pkg/errors"
)

// FromCSV reads a dataset from CSV. The first row must be a header; the
// column named target becomes the label, every other column is parsed as a
// numeric feature.
func FromCSV(r io.Reader, target string) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}

	targetCol := -1
	var names []string
	for i, col := range header {
		if col == target {
			targetCol = i
			continue
		}
		names = append(names, col)
	}
	if targetCol < 0 {
		return nil, errors.NewValidationError("target", "column not found in header", target)
	}

	var (
		values []float64
		labels []string
	)
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading csv row %d", rowNum)
		}

		for i, cell := range row {
			if i == targetCol {
				labels = append(labels, cell)
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %q: not a number", rowNum, header[i])
			}
			values = append(values, v)
		}
		rowNum++
	}

	if len(labels) == 0 {
		return nil, errors.ErrEmptyData
	}

	x := mat.NewDense(len(labels), len(names), values)
	return New(x, labels, names)
}
