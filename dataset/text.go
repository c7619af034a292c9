// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gorse-io/bagged/base"
	"github.com/gorse-io/bagged/base/encoding"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

const (
	textSeparator = ","
	maxLineSize   = 64 * 1024 * 1024
)

// SaveText writes the dataset as comma separated rows of
//
//	bag,label,V1,...,VD
//
// with one row per instance. Only datasets with single-column instance labels can be
// written. Bag labels are not written.
func (d *Bagged) SaveText(w io.Writer) error {
	if err := d.CheckText(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	var builder strings.Builder
	builder.WriteString("bag,label")
	for j := 1; j <= d.instances.cols; j++ {
		builder.WriteString(",V")
		builder.WriteString(strconv.Itoa(j))
	}
	builder.WriteByte('\n')
	if _, err := bw.WriteString(builder.String()); err != nil {
		return errors.Trace(err)
	}
	for i := 0; i < d.instances.rows; i++ {
		builder.Reset()
		builder.WriteString(strconv.Itoa(d.indices[i]))
		builder.WriteString(textSeparator)
		builder.WriteString(encoding.FormatFloat(d.instanceLabels.data[i]))
		for _, v := range d.instances.row(i) {
			builder.WriteString(textSeparator)
			builder.WriteString(encoding.FormatFloat(v))
		}
		builder.WriteByte('\n')
		if _, err := bw.WriteString(builder.String()); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(bw.Flush())
}

// LoadText reads comma separated rows of
//
//	<bag-id>,<label>,<feature>+
//
// where each row is an instance. Bag ids are arbitrary integers and are mapped to bag
// indices in order of first appearance. The label of a bag is the mean of the labels of
// its instances. If header is true, the first line is skipped. Empty lines are ignored.
// Fields may be double quoted as in CSV, so a quoted field holding a comma counts as one
// field and its value must still parse as a number.
func LoadText(r io.Reader, header bool) (*Bagged, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var (
		numColumns int
		numRows    int
		rawIds     []int64
		labels     []float64
		features   []float64
	)
	err := base.ReadLines(sc, textSeparator, func(lineNumber int, fields []string) error {
		if header && lineNumber == 0 {
			return nil
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			return nil
		}
		if numRows == 0 {
			numColumns = len(fields)
			if numColumns < 2 {
				return formatErrorf("line %d: expect at least 2 columns, got %d", lineNumber+1, numColumns)
			}
		} else if len(fields) != numColumns {
			return formatErrorf("line %d: expect %d columns, got %d", lineNumber+1, numColumns, len(fields))
		}
		rawId, err := parseBagId(fields[0])
		if err != nil {
			return formatErrorf("line %d: invalid bag id %q", lineNumber+1, fields[0])
		}
		rawIds = append(rawIds, rawId)
		for j, field := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return formatErrorf("line %d: invalid value %q in column %d", lineNumber+1, field, j+2)
			}
			if j == 0 {
				labels = append(labels, v)
			} else {
				features = append(features, v)
			}
		}
		numRows++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if numRows == 0 {
		return NewEmpty(0, 1, 1), nil
	}

	dict := NewBagDict()
	indices := make([]int, numRows)
	for i, rawId := range rawIds {
		indices[i] = dict.Id(rawId)
	}
	return newBagged(
		block{rows: numRows, cols: numColumns - 2, data: features},
		indices,
		block{rows: dict.Count(), cols: 1, data: bagMeans(indices, labels, dict)},
		block{rows: numRows, cols: 1, data: labels},
	)
}

// bagMeans aggregates instance labels into bag labels by taking the mean of each bag.
func bagMeans(indices []int, labels []float64, dict *BagDict) []float64 {
	members := make([][]float64, dict.Count())
	for bag := range members {
		members[bag] = make([]float64, 0, dict.Freq(bag))
	}
	for i, bag := range indices {
		members[bag] = append(members[bag], labels[i])
	}
	means := make([]float64, len(members))
	for bag := range members {
		means[bag] = stat.Mean(members[bag], nil)
	}
	return means
}

// parseBagId accepts integers and floating point values without a fractional part.
func parseBagId(field string) (int64, error) {
	field = strings.TrimSpace(field)
	if id, err := strconv.ParseInt(field, 10, 64); err == nil {
		return id, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > 1<<53 {
		return 0, errors.Errorf("bag id %v is not an integer", v)
	}
	return int64(v), nil
}

// CheckText returns an error satisfying ErrShapeMismatch if SaveText cannot write d.
func (d *Bagged) CheckText() error {
	if d.instanceLabels.cols != 1 {
		return shapeMismatchf("text format requires instance label dimension 1, got %d", d.instanceLabels.cols)
	}
	return nil
}
