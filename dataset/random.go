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
	"time"

	"github.com/gorse-io/bagged/base"
	"github.com/juju/errors"
)

type randomOptions struct {
	seed             int64
	bagLabelDim      int
	instanceLabelDim int
}

type RandomOption func(*randomOptions)

// WithSeed makes Random deterministic.
func WithSeed(seed int64) RandomOption {
	return func(o *randomOptions) {
		o.seed = seed
	}
}

// WithBagLabelDim sets the width of bag labels. The default is 1.
func WithBagLabelDim(dim int) RandomOption {
	return func(o *randomOptions) {
		o.bagLabelDim = dim
	}
}

// WithInstanceLabelDim sets the width of instance labels. The default is 1.
func WithInstanceLabelDim(dim int) RandomOption {
	return func(o *randomOptions) {
		o.instanceLabelDim = dim
	}
}

// Random generates a synthetic dataset of numberOfBags bags with bagSize instances each.
// Features and bag labels are uniform in [-1, 1), instance labels are zero and instance i
// belongs to bag i / bagSize.
func Random(numberOfBags, bagSize, dimension int, opts ...RandomOption) *Bagged {
	options := randomOptions{
		seed:             time.Now().UnixNano(),
		bagLabelDim:      1,
		instanceLabelDim: 1,
	}
	for _, opt := range opts {
		opt(&options)
	}
	rng := base.NewRandomGenerator(options.seed)
	numberOfInstances := numberOfBags * bagSize
	instances := block{
		rows: numberOfInstances,
		cols: dimension,
		data: rng.UniformMatrix(numberOfInstances, dimension, -1, 1),
	}
	indices := make([]int, numberOfInstances)
	for i := range indices {
		indices[i] = i / bagSize
	}
	bagLabels := block{
		rows: numberOfBags,
		cols: options.bagLabelDim,
		data: rng.UniformMatrix(numberOfBags, options.bagLabelDim, -1, 1),
	}
	instanceLabels := newBlock(numberOfInstances, options.instanceLabelDim)
	d, err := newBagged(instances, indices, bagLabels, instanceLabels)
	if err != nil {
		// the arrays above are consistent by construction
		panic(errors.ErrorStack(err))
	}
	return d
}
