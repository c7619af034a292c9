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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorse-io/bagged/config"
	"github.com/gorse-io/bagged/dataset"
	"github.com/gorse-io/bagged/storage/blob"
	"github.com/gorse-io/bagged/storage/compress"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	dir        string
	repository *Repository
	binary     *dataset.Bagged
	text       *dataset.Bagged
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.repository = NewRepository(blob.NewPOSIX(suite.dir))
	suite.binary = dataset.Random(20, 5, 8, dataset.WithSeed(0), dataset.WithInstanceLabelDim(2))
	var err error
	// bag labels of a text dataset are means of its instance labels
	suite.text, err = dataset.LoadText(strings.NewReader("3,1,0.5,2\n3,0,1.5,-2\n8,1,0,0\n"), false)
	suite.Require().NoError(err)
}

func (suite *RepositoryTestSuite) TestBinary() {
	for _, name := range []string{"train.bags", "train.bags.zst", "train.bags.lz4", "nested/train"} {
		suite.Require().NoError(suite.repository.Save(name, suite.binary), name)
		bags, err := suite.repository.Load(name)
		suite.Require().NoError(err, name)
		suite.True(suite.binary.Equal(bags), name)
	}
}

func (suite *RepositoryTestSuite) TestText() {
	for _, name := range []string{"train.csv", "train.csv.zst", "train.csv.lz4"} {
		suite.Require().NoError(suite.repository.Save(name, suite.text), name)
		bags, err := suite.repository.Load(name)
		suite.Require().NoError(err, name)
		suite.True(suite.text.Equal(bags), name)
	}
	content, err := os.ReadFile(filepath.Join(suite.dir, "train.csv"))
	suite.NoError(err)
	suite.Equal("bag,label,V1,V2\n0,1,0.5,2\n0,0,1.5,-2\n1,1,0,0\n", string(content))
}

func (suite *RepositoryTestSuite) TestCompressed() {
	suite.Require().NoError(suite.repository.Save("train.bags.zst", suite.binary))
	suite.Require().NoError(suite.repository.Save("train.bags", suite.binary))
	compressed, err := os.Stat(filepath.Join(suite.dir, "train.bags.zst"))
	suite.NoError(err)
	plain, err := os.Stat(filepath.Join(suite.dir, "train.bags"))
	suite.NoError(err)
	suite.Less(compressed.Size(), plain.Size())
}

func (suite *RepositoryTestSuite) TestDefaults() {
	repository := NewRepository(blob.NewPOSIX(suite.dir), WithFormat(config.FormatText), WithCompression(compress.Zstd))
	suite.Require().NoError(repository.Save("train", suite.text))
	bags, err := repository.Load("train")
	suite.Require().NoError(err)
	suite.True(suite.text.Equal(bags))
	// the stored blob is compressed text
	_, err = suite.repository.Load("train")
	suite.Error(err)
	_, err = NewRepository(blob.NewPOSIX(suite.dir), WithFormat(config.FormatText)).Load("train")
	suite.Error(err)
}

func (suite *RepositoryTestSuite) TestListRemove() {
	suite.Require().NoError(suite.repository.Save("b.bags", suite.binary))
	suite.Require().NoError(suite.repository.Save("a.csv", suite.text))
	names, err := suite.repository.List()
	suite.NoError(err)
	suite.Equal([]string{"a.csv", "b.bags"}, names)
	suite.NoError(suite.repository.Remove("a.csv"))
	names, err = suite.repository.List()
	suite.NoError(err)
	suite.Equal([]string{"b.bags"}, names)
	suite.True(errors.Is(suite.repository.Remove("a.csv"), errors.NotFound))
}

func (suite *RepositoryTestSuite) TestNotFound() {
	_, err := suite.repository.Load("missing.bags")
	suite.True(errors.Is(err, errors.NotFound))
}

func (suite *RepositoryTestSuite) TestSaveTextFailure() {
	err := suite.repository.Save("train.csv", suite.binary)
	suite.ErrorIs(err, dataset.ErrShapeMismatch)
	names, err := suite.repository.List()
	suite.NoError(err)
	suite.Empty(names)
}

func (suite *RepositoryTestSuite) TestSaveFailureKeepsDataset() {
	suite.Require().NoError(suite.repository.Save("train.csv", suite.text))
	// instance labels of two columns cannot be written as text
	err := suite.repository.Save("train.csv", suite.binary)
	suite.ErrorIs(err, dataset.ErrShapeMismatch)
	bags, err := suite.repository.Load("train.csv")
	suite.Require().NoError(err)
	suite.True(suite.text.Equal(bags))

	// a write failing midway leaves the previous blob in place
	suite.Require().NoError(suite.repository.Save("train.bags", suite.text))
	repository := NewRepository(&failingStore{Store: blob.NewPOSIX(suite.dir), limit: 64})
	err = repository.Save("train.bags", suite.binary)
	suite.ErrorIs(err, errWriteLimit)
	bags, err = suite.repository.Load("train.bags")
	suite.Require().NoError(err)
	suite.True(suite.text.Equal(bags))
	names, err := suite.repository.List()
	suite.NoError(err)
	suite.Equal([]string{"train.bags", "train.csv"}, names)
}

func (suite *RepositoryTestSuite) TestCorrupted() {
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dir, "broken.bags"), []byte("1 2 3 4 5\n"), 0644))
	_, err := suite.repository.Load("broken.bags")
	suite.ErrorIs(err, dataset.ErrFormat)
}

const errWriteLimit = errors.ConstError("write limit exceeded")

// failingStore fails writes after limit bytes.
type failingStore struct {
	blob.Store
	limit int
}

func (s *failingStore) Create(name string) (blob.Writer, chan struct{}, error) {
	w, done, err := s.Store.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return &limitedWriter{Writer: w, remain: s.limit}, done, nil
}

type limitedWriter struct {
	blob.Writer
	remain int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if len(p) > w.remain {
		n, _ := w.Writer.Write(p[:w.remain])
		w.remain = 0
		return n, errWriteLimit
	}
	w.remain -= len(p)
	return w.Writer.Write(p)
}

func TestRepository(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := config.GetDefaultConfig().Storage
	cfg.Dir = dir
	cfg.Compression = config.CompressionLZ4
	cfg.Format = config.FormatText
	repository, err := Open(cfg)
	require.NoError(t, err)
	assert.Equal(t, NewOptions(WithFormat(config.FormatText), WithCompression(compress.LZ4)), repository.options)

	bags := dataset.Random(3, 2, 4, dataset.WithSeed(1))
	require.NoError(t, repository.Save("train.bags", bags))
	reopened, err := Open(cfg)
	require.NoError(t, err)
	loaded, err := reopened.Load("train.bags")
	require.NoError(t, err)
	assert.True(t, bags.Equal(loaded))

	cfg.Compression = "gzip"
	_, err = Open(cfg)
	assert.True(t, errors.Is(err, errors.NotSupported))
}
