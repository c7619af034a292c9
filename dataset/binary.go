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
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/gorse-io/bagged/base/encoding"
	"github.com/juju/errors"
)

const (
	commentMarker   = '#'
	maxBinaryValues = math.MaxInt / 8
	binaryHeader    = "#  number of instances   number of features   number of bags" +
		"   dimension of bag label space   dimension of instances label space\n"
)

// Save writes the dataset in binary format: a comment line, a line holding
//
//	N   D   B   BagLabelDim   InstanceLabelDim
//
// and four raw blocks in host byte order: instances (N*D float64, row-major), bag
// membership indices (N int64), bag labels (B*BagLabelDim float64) and instance labels
// (N*InstanceLabelDim float64). The format is a memory dump and is not portable between
// hosts with different byte order.
func (d *Bagged) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(binaryHeader); err != nil {
		return errors.Trace(err)
	}
	if _, err := fmt.Fprintf(bw, "%d   %d   %d   %d   %d\n",
		d.instances.rows, d.instances.cols, d.bagLabels.rows, d.bagLabels.cols, d.instanceLabels.cols); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteFloats(bw, d.instances.data); err != nil {
		return errors.Annotate(err, "failed to write instances")
	}
	if err := encoding.WriteIndices(bw, d.indices); err != nil {
		return errors.Annotate(err, "failed to write bag membership indices")
	}
	if err := encoding.WriteFloats(bw, d.bagLabels.data); err != nil {
		return errors.Annotate(err, "failed to write bag labels")
	}
	if err := encoding.WriteFloats(bw, d.instanceLabels.data); err != nil {
		return errors.Annotate(err, "failed to write instance labels")
	}
	return errors.Trace(bw.Flush())
}

// Load reads a dataset written by Save. Unless r is a *bufio.Reader, Load may consume
// bytes past the end of the dataset. Blocks are read incrementally, so a header declaring
// more data than the stream holds fails with ErrTruncatedInput without allocating the
// declared size. The five shape integers must be on a single line terminated by '\n'.
func Load(r io.Reader) (*Bagged, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	shape, err := readBinaryHeader(br)
	if err != nil {
		return nil, err
	}
	numInstances, numFeatures, numBags, bagLabelDim, instanceLabelDim :=
		shape[0], shape[1], shape[2], shape[3], shape[4]

	instances := block{rows: numInstances, cols: numFeatures}
	if instances.data, err = encoding.ReadFloats(br, numInstances*numFeatures); err != nil {
		return nil, readError(err, "instances")
	}
	indices, err := encoding.ReadIndices(br, numInstances)
	if err != nil {
		return nil, readError(err, "bag membership indices")
	}
	bagLabels := block{rows: numBags, cols: bagLabelDim}
	if bagLabels.data, err = encoding.ReadFloats(br, numBags*bagLabelDim); err != nil {
		return nil, readError(err, "bag labels")
	}
	instanceLabels := block{rows: numInstances, cols: instanceLabelDim}
	if instanceLabels.data, err = encoding.ReadFloats(br, numInstances*instanceLabelDim); err != nil {
		return nil, readError(err, "instance labels")
	}
	return newBagged(instances, indices, bagLabels, instanceLabels)
}

// readBinaryHeader parses the comment line and the five shape integers.
func readBinaryHeader(br *bufio.Reader) ([5]int, error) {
	var shape [5]int
	// the first non-whitespace character must be the comment marker
	for {
		c, _, err := br.ReadRune()
		if err != nil {
			return shape, formatErrorf("missing header")
		}
		if unicode.IsSpace(c) {
			continue
		}
		if c != commentMarker {
			return shape, formatErrorf("missing header")
		}
		break
	}
	if _, err := br.ReadString('\n'); err != nil {
		return shape, formatErrorf("error parsing header")
	}
	line, err := br.ReadString('\n')
	if err != nil {
		return shape, formatErrorf("error parsing header")
	}
	fields := strings.Fields(line)
	if len(fields) != len(shape) {
		return shape, formatErrorf("error parsing header: expect %d integers, got %q", len(shape), line)
	}
	for i, field := range fields {
		shape[i], err = strconv.Atoi(field)
		if err != nil || shape[i] < 0 {
			return shape, formatErrorf("error parsing header: invalid size %q", field)
		}
	}
	// the total number of values, indices included, must be addressable in bytes
	total := 0
	for _, dims := range [][2]int{{shape[0], shape[1]}, {shape[0], 1}, {shape[2], shape[3]}, {shape[0], shape[4]}} {
		if dims[1] != 0 && dims[0] > (maxBinaryValues-total)/dims[1] {
			return shape, formatErrorf("error parsing header: shape %v is too large", shape)
		}
		total += dims[0] * dims[1]
	}
	return shape, nil
}

func readError(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return truncatedInputf("could not read %s", what)
	}
	return errors.Annotatef(err, "could not read %s", what)
}
