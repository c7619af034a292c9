// Copyright 2022 gorse Project Authors
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

package encoding

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFloats(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	buf := bytes.NewBuffer(nil)
	err := WriteFloats(buf, a)
	assert.NoError(t, err)
	assert.Equal(t, 32, buf.Len())
	b, err := ReadFloats(buf, len(a))
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReadFloats_Chunked(t *testing.T) {
	a := make([]float64, chunkSize*2+3)
	for i := range a {
		a[i] = float64(i) / 7
	}
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteFloats(buf, a))
	b, err := ReadFloats(buf, len(a))
	assert.NoError(t, err)
	assert.Equal(t, a, b)

	// a short stream ending on a chunk boundary is still unexpected
	buf.Reset()
	assert.NoError(t, WriteFloats(buf, a[:chunkSize]))
	_, err = ReadFloats(buf, len(a))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadIndices_Chunked(t *testing.T) {
	a := make([]int, chunkSize+1)
	for i := range a {
		a[i] = i % 5
	}
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteIndices(buf, a))
	b, err := ReadIndices(buf, len(a))
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReadHugeBlock(t *testing.T) {
	// a declared length far beyond the stream fails without allocating it
	_, err := ReadFloats(bytes.NewReader(make([]byte, 16)), 1<<50)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = ReadIndices(bytes.NewReader(nil), 1<<50)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFloats_Short(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteFloats(buf, []float64{1, 2}))
	_, err := ReadFloats(buf, 3)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = ReadFloats(bytes.NewReader(nil), 1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriteIndices(t *testing.T) {
	a := []int{0, 0, 1, 2, math.MaxInt32 + 1}
	buf := bytes.NewBuffer(nil)
	err := WriteIndices(buf, a)
	assert.NoError(t, err)
	assert.Equal(t, 40, buf.Len())
	b, err := ReadIndices(buf, len(a))
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmptyBlocks(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	assert.NoError(t, WriteFloats(buf, nil))
	assert.NoError(t, WriteIndices(buf, nil))
	assert.Zero(t, buf.Len())
	floats, err := ReadFloats(buf, 0)
	assert.NoError(t, err)
	assert.Empty(t, floats)
	indices, err := ReadIndices(buf, 0)
	assert.NoError(t, err)
	assert.Empty(t, indices)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1", FormatFloat(1))
	assert.Equal(t, "-0.25", FormatFloat(-0.25))
	for _, v := range []float64{0.1, 1.0 / 3, math.Pi, 1e-300, -123456789.125} {
		parsed, err := strconv.ParseFloat(FormatFloat(v), 64)
		assert.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}
