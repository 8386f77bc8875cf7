// Copyright 2025 Tom Barlow
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

package canon

import "strconv"

// Pair is one dotted-path key and its value.
type Pair struct {
	Key   string
	Value string
}

// Flatten walks n and emits one pair per scalar leaf. Object fields extend
// the path with ".field" and array elements with a 1-based ".N". Scalars
// emit their Text (null becomes "null"); missing values emit nothing.
// Output order follows object insertion order.
func Flatten(n *Node, prefix string) []Pair {
	var out []Pair
	return flatten(out, n, prefix)
}

func flatten(out []Pair, n *Node, prefix string) []Pair {
	switch n.Kind() {
	case KindMissing:
		return out
	case KindObject:
		for _, k := range n.keys {
			out = flatten(out, n.fields[k], join(prefix, k))
		}
	case KindArray:
		for i, item := range n.items {
			out = flatten(out, item, join(prefix, strconv.Itoa(i+1)))
		}
	default:
		out = append(out, Pair{Key: prefix, Value: n.Text()})
	}
	return out
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
