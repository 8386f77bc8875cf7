package canon

import (
	"context"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

// DefaultQueryTimeout bounds a single jq evaluation.
const DefaultQueryTimeout = 1 * time.Second

// Query evaluates a jq expression against n and returns every emitted
// value as a tree. An empty expression returns n itself.
func Query(ctx context.Context, n *Node, expression string) ([]*Node, error) {
	if expression == "" {
		return []*Node{n}, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile error: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var results []*Node
	iter := code.RunWithContext(execCtx, n.ToValue())
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if execCtx.Err() != nil {
				return nil, fmt.Errorf("execution timeout after %v", DefaultQueryTimeout)
			}
			return nil, err
		}
		out, err := FromValue(v)
		if err != nil {
			return nil, err
		}
		results = append(results, out)
	}
	return results, nil
}

// QueryOne is Query for expressions expected to yield a single value. No
// output yields nil; several outputs are collected into an array.
func QueryOne(ctx context.Context, n *Node, expression string) (*Node, error) {
	results, err := Query(ctx, n, expression)
	if err != nil {
		return nil, err
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return NewArray(results...), nil
	}
}
