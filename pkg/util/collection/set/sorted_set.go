// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package set

import (
	"cmp"
	"slices"
	"sort"
)

// SortedSet is an array of unique sorted values (i.e. no duplicates).
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns a sorted set holding the given items (if any).  The
// given array is cloned first, hence is not mutated by this function or any
// subsequent call on the resulting set.
func NewSortedSet[T cmp.Ordered](items ...T) *SortedSet[T] {
	var nitems SortedSet[T] = slices.Clone(items)
	//
	slices.Sort(nitems)
	nitems = slices.Compact(nitems)
	//
	return &nitems
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(*p)
}

// ToArray extracts the underlying array from this sorted set.
func (p *SortedSet[T]) ToArray() []T {
	return *p
}

// Clone returns a copy of this set which shares no storage with it.
func (p *SortedSet[T]) Clone() *SortedSet[T] {
	var ndata SortedSet[T] = slices.Clone(*p)
	//
	return &ndata
}

// Contains returns true if a given element is in the set.
//
//nolint:revive
func (p *SortedSet[T]) Contains(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(*p), func(i int) bool {
		return element <= data[i]
	})
	// Check whether item existed or not.
	return i < len(data) && data[i] == element
}

// Insert an element into this sorted set.
//
//nolint:revive
func (p *SortedSet[T]) Insert(element T) {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(*p), func(i int) bool {
		return element <= data[i]
	})
	// Check whether item existed or not.
	if i >= len(data) || data[i] != element {
		// No, item was not found
		ndata := make([]T, len(data)+1)
		copy(ndata, data[0:i])
		ndata[i] = element
		copy(ndata[i+1:], data[i:])
		*p = ndata
	}
}

// InsertSorted inserts all elements in a given sorted set into this set.
//
//nolint:revive
func (p *SortedSet[T]) InsertSorted(q *SortedSet[T]) {
	left := *p
	right := *q
	// Check containment
	n := countDuplicates(left, right)
	// Check for total inclusion
	if n == len(right) {
		// Right set completedly included in left, so actually there is nothing
		// to do.
		return
	}
	// Allocate space
	ndata := make([]T, len(left)+len(right)-n)
	// Merge
	mergeSorted(ndata, left, right)
	// Finally copy over new data
	*p = ndata
}

// Remove an element from this sorted set, returning true if it was present.
//
//nolint:revive
func (p *SortedSet[T]) Remove(element T) bool {
	data := *p
	// Find index where element either does occur, or should occur.
	i := sort.Search(len(data), func(i int) bool {
		return element <= data[i]
	})
	// Check whether item existed or not.
	if i < len(data) && data[i] == element {
		ndata := make([]T, len(data)-1)
		copy(ndata, data[0:i])
		copy(ndata[i:], data[i+1:])
		*p = ndata
		//
		return true
	}
	// Nothing removed
	return false
}

// RemoveSorted removes all elements of a given sorted set from this set.
//
//nolint:revive
func (p *SortedSet[T]) RemoveSorted(q *SortedSet[T]) {
	left := *p
	right := *q
	// Check overlap
	n := countDuplicates(left, right)
	//
	if n == 0 {
		return
	}
	//
	ndata := make([]T, 0, len(left)-n)
	i, j := 0, 0
	//
	for i < len(left) {
		if j >= len(right) || left[i] < right[j] {
			ndata = append(ndata, left[i])
			i++
		} else if left[i] > right[j] {
			j++
		} else {
			i++
			j++
		}
	}
	//
	*p = ndata
}

// Intersect returns a new set holding those elements which are in both this
// set and a given set.  Neither set is modified.
func (p *SortedSet[T]) Intersect(q *SortedSet[T]) *SortedSet[T] {
	left := *p
	right := *q
	ndata := make(SortedSet[T], 0, countDuplicates(left, right))
	i, j := 0, 0
	//
	for i < len(left) && j < len(right) {
		if left[i] < right[j] {
			i++
		} else if left[i] > right[j] {
			j++
		} else {
			ndata = append(ndata, left[i])
			i++
			j++
		}
	}
	//
	return &ndata
}

// Determine number of duplicate elements
func countDuplicates[T cmp.Ordered](left []T, right []T) int {
	// Check containment
	i := 0
	j := 0
	n := 0

	for i < len(left) && j < len(right) {
		if left[i] < right[j] {
			i++
		} else if left[i] > right[j] {
			j++
		} else {
			i++
			j++
			n++ // duplicate detected
		}
	}

	return n
}

// Merge two sets of sorted arrays (left and right) into a target array.  This
// assumes the target array is big enough.
func mergeSorted[T cmp.Ordered](target []T, left []T, right []T) {
	i := 0
	j := 0
	k := 0
	// Merge overlap of both sets
	for ; i < len(left) && j < len(right); k++ {
		if left[i] < right[j] {
			target[k] = left[i]
			i++
		} else if left[i] > right[j] {
			target[k] = right[j]
			j++
		} else {
			target[k] = left[i]
			i++
			j++
		}
	}
	// Handle anything left
	if i < len(left) {
		copy(target[k:], left[i:])
	} else if j < len(right) {
		copy(target[k:], right[j:])
	}
}
