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

import "github.com/juju/errors"

const (
	// ErrShapeMismatch means row or column counts of the arrays of a bagged dataset disagree.
	ErrShapeMismatch = errors.ConstError("shape mismatch")
	// ErrIndexOutOfRange means a bag membership index references a bag without a label row.
	ErrIndexOutOfRange = errors.ConstError("index out of range")
	// ErrFormat means a serialized dataset is malformed.
	ErrFormat = errors.ConstError("format error")
	// ErrTruncatedInput means a binary dataset ended before all declared blocks were read.
	ErrTruncatedInput = errors.ConstError("truncated input")
)

func shapeMismatchf(format string, args ...any) error {
	return errors.WithType(errors.Errorf("shape mismatch: "+format, args...), ErrShapeMismatch)
}

func indexOutOfRangef(format string, args ...any) error {
	return errors.WithType(errors.Errorf("index out of range: "+format, args...), ErrIndexOutOfRange)
}

func formatErrorf(format string, args ...any) error {
	return errors.WithType(errors.Errorf("format error: "+format, args...), ErrFormat)
}

func truncatedInputf(format string, args ...any) error {
	return errors.WithType(errors.Errorf("truncated input: "+format, args...), ErrTruncatedInput)
}
