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

package compress

import (
	"io"
	"strings"

	"github.com/juju/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec is a streaming compression algorithm applied to stored datasets.
type Codec string

const (
	None Codec = "none"
	Zstd Codec = "zstd"
	LZ4  Codec = "lz4"
)

// Parse returns the codec named by a configuration value.
func Parse(name string) (Codec, error) {
	switch Codec(name) {
	case None, Zstd, LZ4:
		return Codec(name), nil
	case "":
		return None, nil
	default:
		return None, errors.NotSupportedf("compression %q", name)
	}
}

// FromName detects the codec from the file extension of name.
func FromName(name string) (Codec, bool) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return Zstd, true
	case strings.HasSuffix(name, ".lz4"):
		return LZ4, true
	default:
		return None, false
	}
}

// Ext returns the file extension of the codec, empty for None.
func (c Codec) Ext() string {
	switch c {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// NewWriter wraps w. Closing the returned writer flushes compressed data but leaves w open.
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, errors.Trace(err)
		}
		return encoder, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, errors.NotSupportedf("compression %q", string(c))
	}
}

// NewReader wraps r. Closing the returned reader releases decoder resources but leaves r open.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Zstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return decoder.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, errors.NotSupportedf("compression %q", string(c))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
