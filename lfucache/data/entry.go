package data

// Entry is the stored (key, value, frequency, recency) record of the LFU cache.
type Entry struct {
	Key       int    // key of the entry
	Value     int    // value of the entry
	Frequency uint64 // 访问次数, 新建时为 0, 每次 get / 更新 set 加 1
	Recency   uint64 // logical timestamp of the last access
}

// Less reports whether e should be evicted before o: lower frequency first,
// older recency among equal frequencies.
func (e *Entry) Less(o *Entry) bool {
	if e.Frequency != o.Frequency {
		return e.Frequency < o.Frequency
	}
	return e.Recency < o.Recency
}

// Touch records an access at the given logical time.
func (e *Entry) Touch(now uint64) {
	e.Frequency++
	e.Recency = now
}
