/* main.go: replay an operation trace through the LFU cache and print the results. */
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"LFUCache/lfucache/cache"
	"LFUCache/lfucache/metrics"
	"LFUCache/lfucache/replay"
)

func readTrace(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// printMetrics gathers the collector once and logs every sample.
func printMetrics(src metrics.StatsSource) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector("lfucache", src)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				v = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			log.Printf("[Replay] %s %g", mf.GetName(), v)
		}
	}
	return nil
}

func main() {
	var (
		tracePath   string
		capacity    int
		shards      int
		showMetrics bool
		logEvicted  bool
	)
	// 通过命令行参数 -trace 指定 trace 文件, "-" 表示从标准输入读取。
	flag.StringVar(&tracePath, "trace", "-", "trace file, - for stdin")
	// -capacity 覆盖 trace 中构造操作给出的容量, 负数表示沿用 trace 的容量。
	flag.IntVar(&capacity, "capacity", -1, "override the trace's cache capacity (negative keeps it)")
	// -shards 大于 1 时通过分片缓存 ShardedCache 回放。
	flag.IntVar(&shards, "shards", 1, "replay through a sharded cache with this many shards")
	flag.BoolVar(&showMetrics, "metrics", false, "log cache metrics after the replay")
	flag.BoolVar(&logEvicted, "evictions", false, "log every evicted entry")
	flag.Parse()

	b, err := readTrace(tracePath)
	if err != nil {
		log.Fatalf("[Replay] reading trace: %v", err)
	}
	tr, err := replay.Decode(b)
	if err != nil {
		log.Fatalf("[Replay] %v", err)
	}

	var opts []cache.Option
	if logEvicted {
		opts = append(opts, cache.WithOnEvicted(func(key, value int) {
			log.Printf("[Replay] evicted key=%d value=%d", key, value)
		}))
	}
	newCache := replay.LFU(opts...)
	if shards > 1 {
		newCache = replay.Sharded(shards, opts...)
	}
	if capacity >= 0 {
		newCache = replay.WithCapacity(capacity, newCache)
	}
	results, c, err := replay.Run(tr, newCache)
	if err != nil {
		log.Fatalf("[Replay] %v", err)
	}

	out, err := replay.Encode(results)
	if err != nil {
		log.Fatalf("[Replay] encoding results: %v", err)
	}
	fmt.Println(string(out))

	if src, ok := c.(metrics.StatsSource); showMetrics && ok {
		if err := printMetrics(src); err != nil {
			log.Fatalf("[Replay] metrics: %v", err)
		}
	}
}
