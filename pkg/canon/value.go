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
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"
)

// FromValue converts a Go value into a tree. Maps are emitted with their
// keys sorted; structs and other types go through encoding/json, which
// keeps struct field order.
func FromValue(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return Number(strconv.FormatUint(x, 10)), nil
	case float64:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return Number(string(b)), nil
	case json.Number:
		return Number(x.String()), nil
	case *big.Int:
		return Number(x.String()), nil
	case []any:
		arr := NewArray()
		for _, item := range x {
			child, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case []string:
		arr := NewArray()
		for _, s := range x {
			arr.Append(String(s))
		}
		return arr, nil
	case map[string]any:
		obj := NewObject()
		for _, k := range sortedKeys(x) {
			child, err := FromValue(x[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, child)
		}
		return obj, nil
	case map[string]string:
		obj := NewObject()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, String(x[k]))
		}
		return obj, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("converting %T: %w", v, err)
		}
		return ParseJSONBytes(b)
	}
}

// MustFromValue is FromValue for literals known to convert.
func MustFromValue(v any) *Node {
	n, err := FromValue(v)
	if err != nil {
		panic(err)
	}
	return n
}

// ToValue converts n into plain Go values: map[string]any, []any, string,
// bool, nil, and int, *big.Int or float64 for numbers.
func (n *Node) ToValue() any {
	switch n.Kind() {
	case KindString:
		return n.text
	case KindBool:
		return n.text == "true"
	case KindNumber:
		if i, err := strconv.ParseInt(n.text, 10, 64); err == nil {
			return int(i)
		}
		if bi, ok := new(big.Int).SetString(n.text, 10); ok {
			return bi
		}
		f, _ := strconv.ParseFloat(n.text, 64)
		return f
	case KindObject:
		m := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.fields[k].ToValue()
		}
		return m
	case KindArray:
		s := make([]any, len(n.items))
		for i, item := range n.items {
			s[i] = item.ToValue()
		}
		return s
	default:
		return nil
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
