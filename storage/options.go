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

package storage

import (
	"github.com/gorse-io/bagged/config"
	"github.com/gorse-io/bagged/storage/compress"
)

// Options are the encoding defaults of a repository, used for names without a known extension.
type Options struct {
	Format      string
	Compression compress.Codec
}

type Option func(*Options)

// WithFormat sets the default format, config.FormatBinary or config.FormatText.
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

func WithCompression(codec compress.Codec) Option {
	return func(o *Options) {
		o.Compression = codec
	}
}

func NewOptions(opts ...Option) Options {
	opt := Options{
		Format:      config.FormatBinary,
		Compression: compress.None,
	}
	for _, o := range opts {
		o(&opt)
	}
	return opt
}
