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

// Package b64 encodes arbitrary bytes as single-line padded base64 text, the
// payload format embedded in generated shell archives.
package b64

import (
	"math"

	"gitlab.com/tozd/go/errors"
)

// 🔤 alphabet is the standard base64 alphabet (RFC 4648 section 4)
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const padding = '='

// 💥 ErrTooLarge is returned when the encoded form would not fit in memory
var ErrTooLarge = errors.Base("input too large to encode")

// 📏 EncodedLen returns the exact length of the encoding of n bytes.
// It fails with ErrTooLarge when the result does not fit in an int.
func EncodedLen(n int) (int, error) {
	if n < 0 {
		return 0, errors.Errorf("negative input length %d", n)
	}
	groups := n / 3
	if n%3 != 0 {
		groups++
	}
	if groups > math.MaxInt/4 {
		return 0, errors.WithDetails(ErrTooLarge, "length", n)
	}
	return groups * 4, nil
}

// 🎯 Encode returns the padded base64 encoding of data with no line breaks.
// An empty input yields an empty string.
func Encode(data []byte) (string, error) {
	size, err := EncodedLen(len(data))
	if err != nil {
		return "", err
	}
	if size == 0 {
		return "", nil
	}

	out := make([]byte, size)
	encode(out, data)
	return string(out), nil
}

// encode writes the encoding of src into dst, which must be exactly
// EncodedLen(len(src)) bytes long.
func encode(dst, src []byte) {
	di, si := 0, 0
	full := (len(src) / 3) * 3
	for si < full {
		chunk := uint(src[si])<<16 | uint(src[si+1])<<8 | uint(src[si+2])

		dst[di+0] = alphabet[chunk>>18&0x3F]
		dst[di+1] = alphabet[chunk>>12&0x3F]
		dst[di+2] = alphabet[chunk>>6&0x3F]
		dst[di+3] = alphabet[chunk&0x3F]

		si += 3
		di += 4
	}

	switch len(src) - si {
	case 1:
		chunk := uint(src[si]) << 16
		dst[di+0] = alphabet[chunk>>18&0x3F]
		dst[di+1] = alphabet[chunk>>12&0x3F]
		dst[di+2] = padding
		dst[di+3] = padding
	case 2:
		chunk := uint(src[si])<<16 | uint(src[si+1])<<8
		dst[di+0] = alphabet[chunk>>18&0x3F]
		dst[di+1] = alphabet[chunk>>12&0x3F]
		dst[di+2] = alphabet[chunk>>6&0x3F]
		dst[di+3] = padding
	}
}
