package replay

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"LFUCache/lfucache/cache"
)

const leetcodeTrace = `{
	"ops":  ["LFUCache","put","put","get","put","get","get","put","get","get","get"],
	"args": [[2],[1,1],[2,2],[1],[3,3],[2],[3],[4,4],[1],[3],[4]]
}`

func TestReplay(t *testing.T) {
	tr, err := Decode([]byte(leetcodeTrace))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	results, c, err := Run(tr, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var got []interface{}
	for _, r := range results {
		if r.Void {
			got = append(got, nil)
		} else {
			got = append(got, r.Value)
		}
	}
	want := []interface{}{nil, nil, nil, 1, nil, -1, 3, nil, -1, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("results = %v, want %v", got, want)
	}
	lfu, ok := c.(*cache.LFUCache)
	if !ok {
		t.Fatalf("default factory built %T", c)
	}
	if lfu.Len() != 2 || lfu.Stats().Evictions != 2 {
		t.Fatalf("unexpected final cache: len %d, stats %+v", lfu.Len(), lfu.Stats())
	}
}

func TestEncode(t *testing.T) {
	b, err := Encode([]Result{{Void: true}, {Value: 10}, {Value: -1}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	var list structpb.ListValue
	if err := protojson.Unmarshal(b, &list); err != nil {
		t.Fatalf("output %s is not a JSON list: %v", b, err)
	}
	got := list.AsSlice()
	want := []interface{}{nil, float64(10), float64(-1)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode round trip = %v, want %v", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `ops`},
		{"missing args", `{"ops": ["LFUCache"]}`},
		{"length mismatch", `{"ops": ["LFUCache", "get"], "args": [[1]]}`},
		{"op not string", `{"ops": [1], "args": [[1]]}`},
		{"args not list", `{"ops": ["get"], "args": [1]}`},
		{"fractional arg", `{"ops": ["get"], "args": [[1.5]]}`},
		{"string arg", `{"ops": ["get"], "args": [["1"]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.input)); !errors.Is(err, ErrMalformedTrace) {
				t.Errorf("expected ErrMalformedTrace, got %v", err)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		tr   Trace
		want error
	}{
		{"get before construction", Trace{Ops: []string{"get"}, Args: [][]int{{1}}}, ErrNoCache},
		{"set before construction", Trace{Ops: []string{"set"}, Args: [][]int{{1, 1}}}, ErrNoCache},
		{"unknown op", Trace{Ops: []string{"LFUCache", "delete"}, Args: [][]int{{1}, {1}}}, ErrUnknownOp},
		{"constructor args", Trace{Ops: []string{"LFUCache"}, Args: [][]int{{}}}, ErrBadArgs},
		{"set args", Trace{Ops: []string{"LFUCache", "set"}, Args: [][]int{{1}, {1}}}, ErrBadArgs},
		{"get args", Trace{Ops: []string{"LFUCache", "get"}, Args: [][]int{{1}, {1, 2}}}, ErrBadArgs},
		{"length mismatch", Trace{Ops: []string{"LFUCache", "get"}, Args: [][]int{{1}}}, ErrMalformedTrace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Run(&tt.tr, nil); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunZeroCapacity(t *testing.T) {
	tr := &Trace{
		Ops:  []string{"LFUCache", "set", "get"},
		Args: [][]int{{0}, {0, 0}, {0}},
	}
	results, c, err := Run(tr, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if results[2].Value != -1 || c.Len() != 0 {
		t.Fatalf("zero-capacity cache stored a value: %+v", results)
	}
}

func TestReplayFile(t *testing.T) {
	b, err := os.ReadFile("testdata/example.json")
	if err != nil {
		t.Fatalf("reading trace: %v", err)
	}
	tr, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	results, _, err := Run(tr, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// capacity 2: the read of 1 leaves 2 as the least frequently used entry
	want := []Result{{Void: true}, {Void: true}, {Void: true}, {Value: 10}, {Void: true}, {Value: -1}, {Value: 10}, {Value: 30}}
	if !reflect.DeepEqual(results, want) {
		t.Fatalf("results = %+v, want %+v", results, want)
	}
}

func TestRunCapacityOverride(t *testing.T) {
	tr, err := Decode([]byte(leetcodeTrace))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	// capacity 3 keeps 2 alive; put 4 then evicts 1, the oldest of three keys read once
	results, c, err := Run(tr, WithCapacity(3, LFU()))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []Result{{Void: true}, {Void: true}, {Void: true}, {Value: 1}, {Void: true},
		{Value: 2}, {Value: 3}, {Void: true}, {Value: -1}, {Value: 3}, {Value: 4}}
	if !reflect.DeepEqual(results, want) {
		t.Fatalf("results = %+v, want %+v", results, want)
	}
	if lfu := c.(*cache.LFUCache); lfu.Cap() != 3 {
		t.Fatalf("expected capacity 3, got %d", lfu.Cap())
	}

	results, c, err = Run(tr, WithCapacity(0, LFU()))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, r := range results {
		if !r.Void && r.Value != cache.Absent {
			t.Fatalf("op %d: zero-capacity override returned %d", i, r.Value)
		}
	}
	if c.Len() != 0 {
		t.Fatalf("zero-capacity override stored %d entries", c.Len())
	}
}

func TestRunSharded(t *testing.T) {
	tr := &Trace{
		Ops:  []string{"LFUCache", "set", "set", "set", "get", "get", "get", "get"},
		Args: [][]int{{12}, {1, 10}, {2, 20}, {3, 30}, {1}, {2}, {3}, {4}},
	}
	results, c, err := Run(tr, Sharded(4))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s, ok := c.(*cache.ShardedCache)
	if !ok {
		t.Fatalf("Sharded factory built %T", c)
	}
	if s.NumShards() != 4 {
		t.Fatalf("expected 4 shards, got %d", s.NumShards())
	}
	// each shard holds three entries, so three keys never force an eviction
	want := []int{10, 20, 30, cache.Absent}
	for i, w := range want {
		if got := results[4+i].Value; got != w {
			t.Errorf("get %d = %d, want %d", i+1, got, w)
		}
	}
}
