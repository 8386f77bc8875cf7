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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
		want   []Pair
	}{
		{
			name:  "scalars at root object",
			input: `{"MaxResults":5,"DryRun":false,"Name":"x"}`,
			want: []Pair{
				{"MaxResults", "5"},
				{"DryRun", "false"},
				{"Name", "x"},
			},
		},
		{
			name:  "nested arrays are 1-based",
			input: `{"Filter":[{"Name":"vpc-id","Value":["a","b"]}]}`,
			want: []Pair{
				{"Filter.1.Name", "vpc-id"},
				{"Filter.1.Value.1", "a"},
				{"Filter.1.Value.2", "b"},
			},
		},
		{
			name:   "prefix applied",
			input:  `["a","b"]`,
			prefix: "InstanceId",
			want: []Pair{
				{"InstanceId.1", "a"},
				{"InstanceId.2", "b"},
			},
		},
		{
			name:  "null leaf",
			input: `{"Marker":null}`,
			want:  []Pair{{"Marker", "null"}},
		},
		{
			name:  "empty containers emit nothing",
			input: `{"A":{},"B":[]}`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseJSONBytes([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Flatten(n, tt.prefix))
		})
	}
}

func TestFlatten_Missing(t *testing.T) {
	assert.Empty(t, Flatten(nil, ""))
	assert.Empty(t, Flatten(nil, "Prefix"))
}

func TestFlatten_VisitsEveryLeafOnce(t *testing.T) {
	n, err := ParseJSONBytes([]byte(`{"a":[1,[2,3],{"b":4}],"c":{"d":{"e":5}}}`))
	require.NoError(t, err)

	got := Flatten(n, "")
	want := []Pair{
		{"a.1", "1"},
		{"a.2.1", "2"},
		{"a.2.2", "3"},
		{"a.3.b", "4"},
		{"c.d.e", "5"},
	}
	assert.Equal(t, want, got)

	// Every key resolves back to its leaf through the field/index chain.
	for _, p := range got {
		assert.Equal(t, p.Value, lookup(n, p.Key).Text(), p.Key)
	}
}

func lookup(n *Node, key string) *Node {
	cur := n
	start := 0
	for i := 0; i <= len(key); i++ {
		if i < len(key) && key[i] != '.' {
			continue
		}
		part := key[start:i]
		start = i + 1
		if cur.IsArray() {
			idx := 0
			for _, c := range part {
				idx = idx*10 + int(c-'0')
			}
			cur = cur.Index(idx - 1)
		} else {
			cur = cur.Get(part)
		}
	}
	return cur
}
