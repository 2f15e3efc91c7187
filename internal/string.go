// Copyright (c) 2026 The treeconf authors
// Use of this source code is governed by a MIT license found in the LICENSE file.

package internal

import "unsafe"

// ByteSlice2String returns a string sharing the memory of bs.
// The bytes must not be modified while the string is in use.
func ByteSlice2String(bs []byte) string {
	if len(bs) == 0 {
		return ""
	}

	return unsafe.String(unsafe.SliceData(bs), len(bs))
}
