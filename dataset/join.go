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
)

// Join concatenates two datasets. Instances, bag labels and instance labels of b are
// appended after those of a, and bag membership indices of b are shifted by the number of
// bags in a. Join(a, b) and Join(b, a) differ unless a equals b.
func Join(a, b *Bagged) (*Bagged, error) {
	if a.Dimension() != b.Dimension() {
		return nil, shapeMismatchf("cannot join datasets of dimension %d and %d", a.Dimension(), b.Dimension())
	}
	if a.BagLabelDim() != b.BagLabelDim() {
		return nil, shapeMismatchf("cannot join datasets of bag label dimension %d and %d",
			a.BagLabelDim(), b.BagLabelDim())
	}
	if a.InstanceLabelDim() != b.InstanceLabelDim() {
		return nil, shapeMismatchf("cannot join datasets of instance label dimension %d and %d",
			a.InstanceLabelDim(), b.InstanceLabelDim())
	}
	offset := a.NumberOfBags()
	indices := slices.Concat(a.indices, lo.Map(b.indices, func(index int, _ int) int {
		return index + offset
	}))
	return newBagged(
		stack(a.instances, b.instances),
		indices,
		stack(a.bagLabels, b.bagLabels),
		stack(a.instanceLabels, b.instanceLabels),
	)
}

// SliceBags returns a copy of bags [i, j) with bag indices rebased to start from 0. The
// instances of these bags must be stored contiguously, which holds for datasets created
// by Random, LoadText and Join of such datasets.
func (d *Bagged) SliceBags(i, j int) (*Bagged, error) {
	if i < 0 || j < i || j > d.NumberOfBags() {
		return nil, indexOutOfRangef("bag range [%d, %d) of %d bags", i, j, d.NumberOfBags())
	}
	inRange := func(index int) bool {
		return index >= i && index < j
	}
	begin := slices.IndexFunc(d.indices, inRange)
	if begin < 0 {
		return newBagged(
			newBlock(0, d.instances.cols),
			[]int{},
			d.bagLabels.rowRange(i, j).clone(),
			newBlock(0, d.instanceLabels.cols),
		)
	}
	end := begin
	for end < len(d.indices) && inRange(d.indices[end]) {
		end++
	}
	if slices.ContainsFunc(d.indices[end:], inRange) {
		return nil, shapeMismatchf("instances of bags [%d, %d) are not contiguous", i, j)
	}
	indices := lo.Map(d.indices[begin:end], func(index int, _ int) int {
		return index - i
	})
	return newBagged(
		d.instances.rowRange(begin, end).clone(),
		indices,
		d.bagLabels.rowRange(i, j).clone(),
		d.instanceLabels.rowRange(begin, end).clone(),
	)
}
