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

package blob

import (
	"io"

	"github.com/gorse-io/bagged/config"
	"github.com/juju/errors"
)

// Writer is a blob being written. Close commits the blob and CloseWithError discards it,
// leaving any previous blob of the same name in place.
type Writer interface {
	io.WriteCloser
	CloseWithError(err error) error
}

// Store is a flat namespace of named blobs.
type Store interface {
	// Open a blob for reading. It returns an error satisfying errors.IsNotFound if the blob does not exist.
	Open(name string) (io.ReadCloser, error)
	// Create a blob for writing. The done channel is closed once the writer is closed and the
	// blob is committed or discarded.
	Create(name string) (Writer, chan struct{}, error)
	// List names of all blobs.
	List() ([]string, error)
	// Remove a blob.
	Remove(name string) error
}

// Open creates the blob store selected by cfg.Backend.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendPOSIX:
		return NewPOSIX(cfg.Dir), nil
	case config.BackendS3:
		return NewS3(cfg.S3)
	case config.BackendGCS:
		return NewGCS(cfg.GCS)
	case config.BackendAzure:
		return NewAzureBlob(cfg.Azure)
	default:
		return nil, errors.NotSupportedf("storage backend %q", cfg.Backend)
	}
}

// pipeWriter streams writes to an upload running in the background.
type pipeWriter struct {
	*io.PipeWriter
	done chan struct{}
	err  error
}

func newPipeWriter(upload func(r io.Reader) error) (*pipeWriter, chan struct{}) {
	pr, pw := io.Pipe()
	w := &pipeWriter{PipeWriter: pw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		w.err = upload(pr)
		_ = pr.CloseWithError(w.err)
	}()
	return w, w.done
}

// Close waits for the upload and returns its error.
func (w *pipeWriter) Close() error {
	if err := w.PipeWriter.Close(); err != nil {
		return errors.Trace(err)
	}
	<-w.done
	return errors.Trace(w.err)
}

// CloseWithError fails the upload with err and waits for it to stop.
func (w *pipeWriter) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	_ = w.PipeWriter.CloseWithError(err)
	<-w.done
	return nil
}
