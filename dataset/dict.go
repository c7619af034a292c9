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

// BagDict assigns dense bag indices to raw bag ids in order of first appearance
// and counts how many instances reference each bag.
type BagDict struct {
	si  map[int64]int
	is  []int64
	cnt []int
}

func NewBagDict() (d *BagDict) {
	d = &BagDict{map[int64]int{}, []int64{}, []int{}}
	return
}

// Count returns the number of distinct bags.
func (d *BagDict) Count() int {
	return len(d.is)
}

// Id returns the bag index of a raw id and counts one more member.
func (d *BagDict) Id(raw int64) (y int) {
	if y, ok := d.si[raw]; ok {
		d.cnt[y]++
		return y
	}

	y = len(d.is)
	d.si[raw] = y
	d.is = append(d.is, raw)
	d.cnt = append(d.cnt, 1)
	return
}

// Raw returns the raw id of a bag index.
func (d *BagDict) Raw(id int) (raw int64, ok bool) {
	if id < 0 || id >= len(d.is) {
		return 0, false
	}
	return d.is[id], true
}

// Freq returns the number of members of a bag.
func (d *BagDict) Freq(id int) int {
	if id < 0 || id >= len(d.cnt) {
		return 0
	}
	return d.cnt[id]
}
