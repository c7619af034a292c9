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
	"io"
	"strings"

	"github.com/gorse-io/bagged/base/log"
	"github.com/gorse-io/bagged/config"
	"github.com/gorse-io/bagged/dataset"
	"github.com/gorse-io/bagged/storage/blob"
	"github.com/gorse-io/bagged/storage/compress"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const (
	BinaryExt = ".bags"
	TextExt   = ".csv"
)

// Repository persists bagged datasets by name on a blob store. The encoding of a dataset is
// chosen by its name: a trailing .zst or .lz4 selects compression, and .bags or .csv before
// it selects the binary or text format. Other names use the repository defaults.
type Repository struct {
	store   blob.Store
	options Options
}

func NewRepository(store blob.Store, opts ...Option) *Repository {
	return &Repository{store: store, options: NewOptions(opts...)}
}

// Open creates a repository on the blob store described by cfg.
func Open(cfg config.StorageConfig) (*Repository, error) {
	codec, err := compress.Parse(cfg.Compression)
	if err != nil {
		return nil, errors.Trace(err)
	}
	store, err := blob.Open(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	format := cfg.Format
	if format == "" {
		format = config.FormatBinary
	}
	return NewRepository(store, WithFormat(format), WithCompression(codec)), nil
}

func (r *Repository) encoding(name string) (string, compress.Codec) {
	codec, ok := compress.FromName(name)
	if ok {
		name = strings.TrimSuffix(name, codec.Ext())
	} else {
		codec = r.options.Compression
	}
	switch {
	case strings.HasSuffix(name, BinaryExt):
		return config.FormatBinary, codec
	case strings.HasSuffix(name, TextExt):
		return config.FormatText, codec
	default:
		return r.options.Format, codec
	}
}

// Save writes d under name, replacing any existing dataset. The existing dataset is kept if
// d cannot be encoded or the write fails.
func (r *Repository) Save(name string, d *dataset.Bagged) error {
	format, codec := r.encoding(name)
	if format == config.FormatText {
		if err := d.CheckText(); err != nil {
			return errors.Annotatef(err, "save dataset %s", name)
		}
	}
	w, done, err := r.store.Create(name)
	if err != nil {
		return errors.Trace(err)
	}
	if err = encode(w, d, format, codec); err != nil {
		if abortErr := w.CloseWithError(err); abortErr != nil {
			log.Logger().Warn("failed to discard incomplete dataset", zap.String("name", name), zap.Error(abortErr))
		}
		<-done
		return errors.Annotatef(err, "save dataset %s", name)
	}
	err = w.Close()
	<-done
	if err != nil {
		return errors.Annotatef(err, "save dataset %s", name)
	}
	log.Logger().Info("save dataset",
		zap.String("name", name),
		zap.String("format", format),
		zap.String("compression", string(codec)),
		zap.Int("n_instances", d.NumberOfInstances()),
		zap.Int("n_bags", d.NumberOfBags()))
	return nil
}

func encode(w io.Writer, d *dataset.Bagged, format string, codec compress.Codec) error {
	cw, err := codec.NewWriter(w)
	if err != nil {
		return errors.Trace(err)
	}
	if format == config.FormatText {
		err = d.SaveText(cw)
	} else {
		err = d.Save(cw)
	}
	if err != nil {
		_ = cw.Close()
		return errors.Trace(err)
	}
	return errors.Trace(cw.Close())
}

// Load reads the dataset stored under name. It returns an error satisfying errors.IsNotFound
// if there is no such dataset.
func (r *Repository) Load(name string) (*dataset.Bagged, error) {
	format, codec := r.encoding(name)
	rc, err := r.store.Open(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			log.Logger().Error("failed to close dataset", zap.String("name", name), zap.Error(err))
		}
	}()
	cr, err := codec.NewReader(rc)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer cr.Close()
	var d *dataset.Bagged
	if format == config.FormatText {
		d, err = dataset.LoadText(cr, true)
	} else {
		d, err = dataset.Load(cr)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "load dataset %s", name)
	}
	log.Logger().Info("load dataset",
		zap.String("name", name),
		zap.Int("n_instances", d.NumberOfInstances()),
		zap.Int("n_bags", d.NumberOfBags()),
		zap.Int("dimension", d.Dimension()))
	return d, nil
}

// List returns names of stored datasets.
func (r *Repository) List() ([]string, error) {
	names, err := r.store.List()
	return names, errors.Trace(err)
}

func (r *Repository) Remove(name string) error {
	return errors.Trace(r.store.Remove(name))
}
