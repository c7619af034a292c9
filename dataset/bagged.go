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
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// block is a row-major matrix that, unlike mat.Dense, may have zero rows or columns.
type block struct {
	rows int
	cols int
	data []float64
}

func newBlock(rows, cols int) block {
	return block{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// copyBlock copies a matrix into a fresh row-major block.
func copyBlock(m mat.Matrix) block {
	rows, cols := m.Dims()
	b := newBlock(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			b.data[i*cols+j] = m.At(i, j)
		}
	}
	return b
}

func (b block) clone() block {
	return block{rows: b.rows, cols: b.cols, data: slices.Clone(b.data)}
}

func (b block) row(i int) []float64 {
	return b.data[i*b.cols : (i+1)*b.cols : (i+1)*b.cols]
}

// rowRange returns rows [i, j) sharing the backing array.
func (b block) rowRange(i, j int) block {
	return block{rows: j - i, cols: b.cols, data: b.data[i*b.cols : j*b.cols]}
}

// matrix returns a gonum view of the block. mat.Dense cannot have a zero dimension, so
// empty blocks are returned as an emptyMatrix of the same shape.
func (b block) matrix() mat.Matrix {
	if b.rows == 0 || b.cols == 0 {
		return emptyMatrix{rows: b.rows, cols: b.cols}
	}
	return mat.NewDense(b.rows, b.cols, b.data)
}

// emptyMatrix is a matrix without elements that keeps its row and column counts.
type emptyMatrix struct {
	rows int
	cols int
}

func (m emptyMatrix) Dims() (int, int) {
	return m.rows, m.cols
}

func (m emptyMatrix) At(i, j int) float64 {
	panic(mat.ErrIndexOutOfRange)
}

func (m emptyMatrix) T() mat.Matrix {
	return emptyMatrix{rows: m.cols, cols: m.rows}
}

func (b block) equal(o block) bool {
	return b.rows == o.rows && b.cols == o.cols && floats.Equal(b.data, o.data)
}

// stack concatenates two blocks of equal width vertically.
func stack(a, b block) block {
	data := make([]float64, 0, len(a.data)+len(b.data))
	data = append(data, a.data...)
	data = append(data, b.data...)
	return block{rows: a.rows + b.rows, cols: a.cols, data: data}
}

// Bagged is a multiple-instance learning dataset. Instances are grouped into bags and both
// instances and bags carry label vectors. All four arrays are owned by the dataset.
//
// A Bagged is safe for concurrent reads. SetInstanceLabels must not run concurrently with
// any other method.
type Bagged struct {
	instances      block // N x D
	indices        []int // N
	bagLabels      block // B x BagLabelDim
	instanceLabels block // N x InstanceLabelDim
}

// New creates a bagged dataset from instances (N x D), bag membership indices (N), bag
// labels (B x BagLabelDim) and instance labels (N x InstanceLabelDim). All arguments are
// copied.
func New(instances mat.Matrix, indices []int, bagLabels, instanceLabels mat.Matrix) (*Bagged, error) {
	return newBagged(copyBlock(instances), slices.Clone(indices), copyBlock(bagLabels), copyBlock(instanceLabels))
}

// NewEmpty creates a dataset without instances and bags whose shapes are fixed to the
// given dimensions.
func NewEmpty(dimension, bagLabelDim, instanceLabelDim int) *Bagged {
	return &Bagged{
		instances:      newBlock(0, dimension),
		indices:        []int{},
		bagLabels:      newBlock(0, bagLabelDim),
		instanceLabels: newBlock(0, instanceLabelDim),
	}
}

// newBagged validates the arrays and takes ownership of them without copying.
func newBagged(instances block, indices []int, bagLabels, instanceLabels block) (*Bagged, error) {
	for _, b := range []block{instances, bagLabels, instanceLabels} {
		if len(b.data) != b.rows*b.cols {
			return nil, shapeMismatchf("%d values for a %dx%d matrix", len(b.data), b.rows, b.cols)
		}
	}
	if instanceLabels.rows != instances.rows {
		return nil, shapeMismatchf("number of instance labels (%d) does not match number of instances (%d)",
			instanceLabels.rows, instances.rows)
	}
	if len(indices) != instances.rows {
		return nil, shapeMismatchf("number of bag membership indices (%d) does not match number of instances (%d)",
			len(indices), instances.rows)
	}
	if len(indices) > 0 {
		if maxIndex := lo.Max(indices); maxIndex >= bagLabels.rows {
			return nil, indexOutOfRangef("largest bag membership index (%d) is not less than number of bag labels (%d)",
				maxIndex, bagLabels.rows)
		}
		if minIndex := lo.Min(indices); minIndex < 0 {
			return nil, indexOutOfRangef("negative bag membership index (%d)", minIndex)
		}
	}
	return &Bagged{
		instances:      instances,
		indices:        indices,
		bagLabels:      bagLabels,
		instanceLabels: instanceLabels,
	}, nil
}

// Clone duplicates all arrays and validates the copy again.
func (d *Bagged) Clone() (*Bagged, error) {
	return newBagged(d.instances.clone(), slices.Clone(d.indices), d.bagLabels.clone(), d.instanceLabels.clone())
}

// NumberOfBags returns the number of bag label rows.
func (d *Bagged) NumberOfBags() int {
	return d.bagLabels.rows
}

// NumberOfInstances returns the number of instances.
func (d *Bagged) NumberOfInstances() int {
	return d.instances.rows
}

// Dimension returns the number of features of an instance.
func (d *Bagged) Dimension() int {
	return d.instances.cols
}

// BagLabelDim returns the width of a bag label.
func (d *Bagged) BagLabelDim() int {
	return d.bagLabels.cols
}

// InstanceLabelDim returns the width of an instance label.
func (d *Bagged) InstanceLabelDim() int {
	return d.instanceLabels.cols
}

// Instances returns a read-only view of the instance matrix.
func (d *Bagged) Instances() mat.Matrix {
	return d.instances.matrix()
}

// Instance returns the features of the i-th instance. The slice shares memory with the
// dataset and must not be modified.
func (d *Bagged) Instance(i int) []float64 {
	return d.instances.row(i)
}

// Indices returns a copy of the bag membership indices.
func (d *Bagged) Indices() []int {
	return slices.Clone(d.indices)
}

// BagLabels returns a read-only view of the bag labels.
func (d *Bagged) BagLabels() mat.Matrix {
	return d.bagLabels.matrix()
}

// InstanceLabels returns a read-only view of the instance labels.
func (d *Bagged) InstanceLabels() mat.Matrix {
	return d.instanceLabels.matrix()
}

// SetInstanceLabels replaces the instance labels. The dataset is left unchanged if the
// number of rows differs from the number of instances or the width differs from
// InstanceLabelDim.
func (d *Bagged) SetInstanceLabels(labels mat.Matrix) error {
	rows, cols := labels.Dims()
	if rows != d.instances.rows {
		return shapeMismatchf("number of instance labels (%d) does not match number of instances (%d)",
			rows, d.instances.rows)
	}
	if cols != d.instanceLabels.cols {
		return shapeMismatchf("instance label dimension (%d) does not match %d", cols, d.instanceLabels.cols)
	}
	d.instanceLabels = copyBlock(labels)
	return nil
}

// BagSizes returns the number of instances in each bag.
func (d *Bagged) BagSizes() []int {
	sizes := make([]int, d.bagLabels.rows)
	for _, index := range d.indices {
		sizes[index]++
	}
	return sizes
}

// BagMembers returns the positions of instances belonging to a bag.
func (d *Bagged) BagMembers(bag int) []int {
	members := make([]int, 0)
	for i, index := range d.indices {
		if index == bag {
			members = append(members, i)
		}
	}
	return members
}

// Equal reports whether two datasets have identical shapes and identical values. Floating
// point values are compared exactly.
func (d *Bagged) Equal(o *Bagged) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.instances.equal(o.instances) &&
		slices.Equal(d.indices, o.indices) &&
		d.bagLabels.equal(o.bagLabels) &&
		d.instanceLabels.equal(o.instanceLabels)
}
