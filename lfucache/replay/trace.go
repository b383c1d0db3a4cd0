// Package replay runs recorded operation traces against an LFU cache.
//
// A trace is a JSON object with two parallel lists:
//
//	{"ops": ["LFUCache", "set", "set", "get"], "args": [[2], [1, 10], [2, 20], [1]]}
//
// The first operation constructs the cache with the given capacity. Results
// are encoded as a JSON list holding null for construction and set, and the
// value (or -1 on a miss) for get.
package replay

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"LFUCache/lfucache/cache"
	"LFUCache/lfucache/interfaces"
)

// Common errors for trace decoding and replay
var (
	ErrMalformedTrace = errors.New("malformed trace")
	ErrUnknownOp      = errors.New("unknown operation")
	ErrBadArgs        = errors.New("bad arguments")
	ErrNoCache        = errors.New("cache used before construction")
)

const (
	OpNew = "LFUCache"
	OpSet = "set"
	OpPut = "put" // alias of set
	OpGet = "get"
)

// Trace is a decoded sequence of operations and their integer arguments.
type Trace struct {
	Ops  []string
	Args [][]int
}

// Result is the outcome of one operation; Void marks operations without a value.
type Result struct {
	Value int
	Void  bool
}

// Decode parses a JSON trace.
func Decode(b []byte) (*Trace, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTrace, err)
	}
	ops := s.GetFields()["ops"].GetListValue()
	args := s.GetFields()["args"].GetListValue()
	if ops == nil || args == nil {
		return nil, fmt.Errorf("%w: \"ops\" and \"args\" lists are required", ErrMalformedTrace)
	}
	if len(ops.GetValues()) != len(args.GetValues()) {
		return nil, fmt.Errorf("%w: %d ops but %d argument lists",
			ErrMalformedTrace, len(ops.GetValues()), len(args.GetValues()))
	}

	tr := &Trace{
		Ops:  make([]string, 0, len(ops.GetValues())),
		Args: make([][]int, 0, len(args.GetValues())),
	}
	for i, v := range ops.GetValues() {
		op, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: op %d is not a string", ErrMalformedTrace, i)
		}
		tr.Ops = append(tr.Ops, op.StringValue)
	}
	for i, v := range args.GetValues() {
		list := v.GetListValue()
		if list == nil {
			return nil, fmt.Errorf("%w: args %d is not a list", ErrMalformedTrace, i)
		}
		row := make([]int, 0, len(list.GetValues()))
		for _, a := range list.GetValues() {
			n, ok := a.GetKind().(*structpb.Value_NumberValue)
			if !ok || n.NumberValue != math.Trunc(n.NumberValue) ||
				math.Abs(n.NumberValue) > 1<<53 {
				return nil, fmt.Errorf("%w: args %d holds a non-integer", ErrMalformedTrace, i)
			}
			row = append(row, int(n.NumberValue))
		}
		tr.Args = append(tr.Args, row)
	}
	return tr, nil
}

// Factory builds the cache a trace's constructor op asks for.
type Factory func(capacity int) interfaces.EvictionPolicy

// LFU builds a plain LFUCache.
func LFU(opts ...cache.Option) Factory {
	return func(capacity int) interfaces.EvictionPolicy {
		return cache.NewLFUCache(capacity, opts...)
	}
}

// Sharded builds a ShardedCache with the given number of shards.
func Sharded(shards int, opts ...cache.Option) Factory {
	return func(capacity int) interfaces.EvictionPolicy {
		return cache.NewShardedCache(shards, capacity, opts...)
	}
}

// WithCapacity ignores the trace's capacity and builds with capacity instead.
func WithCapacity(capacity int, f Factory) Factory {
	return func(int) interfaces.EvictionPolicy {
		return f(capacity)
	}
}

// Run executes the trace and returns one result per operation together with
// the cache it built. A nil factory builds a plain LFUCache.
func Run(tr *Trace, newCache Factory) ([]Result, interfaces.EvictionPolicy, error) {
	if len(tr.Ops) != len(tr.Args) {
		return nil, nil, fmt.Errorf("%w: %d ops but %d argument lists", ErrMalformedTrace, len(tr.Ops), len(tr.Args))
	}
	if newCache == nil {
		newCache = LFU()
	}
	var c interfaces.EvictionPolicy
	results := make([]Result, 0, len(tr.Ops))

	for i, op := range tr.Ops {
		args := tr.Args[i]
		switch op {
		case OpNew:
			if len(args) != 1 {
				return results, c, fmt.Errorf("op %d (%s): %w: want capacity", i, op, ErrBadArgs)
			}
			c = newCache(args[0])
			results = append(results, Result{Void: true})
		case OpSet, OpPut:
			if c == nil {
				return results, c, fmt.Errorf("op %d (%s): %w", i, op, ErrNoCache)
			}
			if len(args) != 2 {
				return results, c, fmt.Errorf("op %d (%s): %w: want key and value", i, op, ErrBadArgs)
			}
			c.Set(args[0], args[1])
			results = append(results, Result{Void: true})
		case OpGet:
			if c == nil {
				return results, c, fmt.Errorf("op %d (%s): %w", i, op, ErrNoCache)
			}
			if len(args) != 1 {
				return results, c, fmt.Errorf("op %d (%s): %w: want key", i, op, ErrBadArgs)
			}
			v, ok := c.Get(args[0])
			if !ok {
				v = cache.Absent
			}
			results = append(results, Result{Value: v})
		default:
			return results, c, fmt.Errorf("op %d: %w: %q", i, ErrUnknownOp, op)
		}
	}
	return results, c, nil
}

// Encode renders results as a JSON list.
func Encode(results []Result) ([]byte, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(results))}
	for _, r := range results {
		if r.Void {
			list.Values = append(list.Values, structpb.NewNullValue())
			continue
		}
		list.Values = append(list.Values, structpb.NewNumberValue(float64(r.Value)))
	}
	return protojson.Marshal(list)
}
