// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package archive

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind classifies a build failure
type Kind int

const (
	KindUnknown         Kind = iota
	KindInvalidArgument      // Malformed request
	KindFile                 // Open, read or seek failure on an input file
	KindAllocation           // Output or working storage could not be obtained
	KindFormat               // A shell snippet could not be rendered
)

// Sentinels matched by errors.Is against any *BuildError of the same kind.
var (
	ErrInvalidArgument = errors.Base("invalid argument")
	ErrFile            = errors.Base("file error")
	ErrAllocation      = errors.Base("allocation failure")
	ErrFormat          = errors.Base("format failure")
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindFile:
		return "file"
	case KindAllocation:
		return "allocation"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindFile:
		return ErrFile
	case KindAllocation:
		return ErrAllocation
	case KindFormat:
		return ErrFormat
	default:
		return nil
	}
}

// 💥 BuildError is the single failure type returned by the Builder.
// Path is empty when the failure is not tied to one input file.
type BuildError struct {
	Kind Kind
	Path string
	Err  error
}

func newBuildError(kind Kind, path string, err error) *BuildError {
	return &BuildError{Kind: kind, Path: path, Err: err}
}

func (e *BuildError) Error() string {
	prefix := "build failed"
	if s := e.Kind.sentinel(); s != nil {
		prefix = s.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *BuildError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// 🔍 KindOf returns the kind of the first *BuildError in err's chain
func KindOf(err error) Kind {
	var berr *BuildError
	if errors.As(err, &berr) {
		return berr.Kind
	}
	return KindUnknown
}
