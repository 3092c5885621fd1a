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
	"fmt"
	"math/rand"
	"testing"

	"github.com/consensys/go-uilift/pkg/util/assert"
)

func Test_SortedSet_00(t *testing.T) {
	check_SortedSet_Insert(t, 5, 10)
	check_SortedSet_InsertSorted(t, 5, 10)
	check_SortedSet_Intersect(t, 5, 10)
	check_SortedSet_RemoveSorted(t, 5, 10)
}

func Test_SortedSet_01(t *testing.T) {
	// Really hammer it.
	for i := 0; i < 1000; i++ {
		t.Run(fmt.Sprintf("i=%d", i), func(t *testing.T) {
			check_SortedSet_Insert(t, 10, 32)
			check_SortedSet_InsertSorted(t, 10, 32)
			check_SortedSet_Intersect(t, 10, 32)
			check_SortedSet_RemoveSorted(t, 10, 32)
		})
	}
}

func Test_SortedSet_02(t *testing.T) {
	check_SortedSet_Insert(t, 100, 32)
	check_SortedSet_InsertSorted(t, 50, 32)
	check_SortedSet_Intersect(t, 50, 32)
	check_SortedSet_RemoveSorted(t, 50, 32)
}

func Test_SortedSet_03(t *testing.T) {
	check_SortedSet_Insert(t, 1000, 64)
	check_SortedSet_InsertSorted(t, 500, 64)
	check_SortedSet_Intersect(t, 500, 64)
	check_SortedSet_RemoveSorted(t, 500, 64)
}

func Test_SortedSet_04(t *testing.T) {
	set := NewSortedSet[uint](3, 1, 2, 3, 1)
	assert.Equal(t, []uint{1, 2, 3}, set.ToArray())
	//
	assert.True(t, set.Remove(2))
	assert.False(t, set.Remove(2))
	assert.Equal(t, []uint{1, 3}, set.ToArray())
	assert.Equal(t, 2, set.Len())
}

func Test_SortedSet_05(t *testing.T) {
	// Intersection leaves both operands untouched.
	left := NewSortedSet[uint](1, 2, 3)
	right := NewSortedSet[uint](2, 3, 4)
	both := left.Intersect(right)
	//
	assert.Equal(t, []uint{2, 3}, both.ToArray())
	assert.Equal(t, []uint{1, 2, 3}, left.ToArray())
	assert.Equal(t, []uint{2, 3, 4}, right.ToArray())
	//
	left.RemoveSorted(both)
	right.RemoveSorted(both)
	assert.Equal(t, []uint{1}, left.ToArray())
	assert.Equal(t, []uint{4}, right.ToArray())
}

func Test_SortedSet_06(t *testing.T) {
	// Clones do not alias.
	set := NewSortedSet[uint](1, 2)
	clone := set.Clone()
	clone.Insert(3)
	//
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 3, clone.Len())
}

// ===================================================================
// Test Helpers
// ===================================================================

func generateRandomUints(n, m uint) []uint {
	items := make([]uint, n)

	for i := uint(0); i < n; i++ {
		items[i] = uint(rand.Int63n(int64(m)))
	}

	return items
}

func array_contains(items []uint, element uint) bool {
	for _, e := range items {
		if e == element {
			return true
		}
	}
	// Not present
	return false
}

func check_SortedSet_Insert(t *testing.T, n uint, m uint) {
	items := generateRandomUints(n, m)
	aset := toSortedSet(items)

	for i := uint(0); i < m; i++ {
		checkMember(t, array_contains(items, i), aset.Contains(i), i)
	}
}

func check_SortedSet_InsertSorted(t *testing.T, n uint, m uint) {
	left := generateRandomUints(n, m)
	right := generateRandomUints(n, m)
	aset := toSortedSet(left)

	aset.InsertSorted(toSortedSet(right))
	//
	for i := uint(0); i < m; i++ {
		checkMember(t, array_contains(left, i) || array_contains(right, i), aset.Contains(i), i)
	}
}

func check_SortedSet_Intersect(t *testing.T, n uint, m uint) {
	left := generateRandomUints(n, m)
	right := generateRandomUints(n, m)
	aset := toSortedSet(left).Intersect(toSortedSet(right))
	//
	for i := uint(0); i < m; i++ {
		checkMember(t, array_contains(left, i) && array_contains(right, i), aset.Contains(i), i)
	}
}

func check_SortedSet_RemoveSorted(t *testing.T, n uint, m uint) {
	left := generateRandomUints(n, m)
	right := generateRandomUints(n, m)
	aset := toSortedSet(left)

	aset.RemoveSorted(toSortedSet(right))
	//
	for i := uint(0); i < m; i++ {
		checkMember(t, array_contains(left, i) && !array_contains(right, i), aset.Contains(i), i)
	}
}

func checkMember(t *testing.T, expected bool, actual bool, item uint) {
	if !expected && actual {
		t.Errorf("unexpected item %d", item)
	} else if expected && !actual {
		t.Errorf("missing item %d", item)
	}
}

func toSortedSet(items []uint) *SortedSet[uint] {
	set := NewSortedSet[uint]()
	for _, v := range items {
		set.Insert(v)
	}

	return set
}
