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

// Package encoding reads and writes raw numeric blocks. Values are stored in the byte
// order of the host, so encoded blocks are only portable between hosts sharing it.
package encoding

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/juju/errors"
)

// ByteOrder is the byte order of encoded blocks.
var ByteOrder binary.ByteOrder = binary.NativeEndian

// WriteFloats writes float64 values to byte stream.
func WriteFloats(w io.Writer, data []float64) error {
	if len(data) == 0 {
		return nil
	}
	return errors.Trace(binary.Write(w, ByteOrder, data))
}

// chunkSize is the number of values read at a time, so memory grows with the bytes
// actually present rather than with the declared length.
const chunkSize = 1 << 16

// ReadFloats reads n float64 values from byte stream. A short stream results in io.EOF or
// io.ErrUnexpectedEOF.
func ReadFloats(r io.Reader, n int) ([]float64, error) {
	data := make([]float64, 0, min(n, chunkSize))
	chunk := make([]float64, min(n, chunkSize))
	for len(data) < n {
		buf := chunk[:min(n-len(data), chunkSize)]
		if err := binary.Read(r, ByteOrder, buf); err != nil {
			if len(data) > 0 && errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, errors.Trace(err)
		}
		data = append(data, buf...)
	}
	return data, nil
}

// WriteIndices writes indices to byte stream as 64-bit integers.
func WriteIndices(w io.Writer, indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	buf := make([]int64, len(indices))
	for i, index := range indices {
		buf[i] = int64(index)
	}
	return errors.Trace(binary.Write(w, ByteOrder, buf))
}

// ReadIndices reads n 64-bit integers from byte stream.
func ReadIndices(r io.Reader, n int) ([]int, error) {
	indices := make([]int, 0, min(n, chunkSize))
	chunk := make([]int64, min(n, chunkSize))
	for len(indices) < n {
		buf := chunk[:min(n-len(indices), chunkSize)]
		if err := binary.Read(r, ByteOrder, buf); err != nil {
			if len(indices) > 0 && errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, errors.Trace(err)
		}
		for _, index := range buf {
			indices = append(indices, int(index))
		}
	}
	return indices, nil
}

// FormatFloat formats a float64 with the fewest digits that read back to the same value.
func FormatFloat(val float64) string {
	return strconv.FormatFloat(val, 'g', -1, 64)
}
