// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package measurement

import "slices"

// CategoryChanged reports whether a freshly sampled category differs from the
// previously held one. A nil prev means the category was never set, which is
// always a change, even against an empty cur. Otherwise the comparison is
// order and length sensitive.
func CategoryChanged[T comparable](prev, cur []T) bool {
	if prev == nil {
		return true
	}
	return !slices.Equal(prev, cur)
}
