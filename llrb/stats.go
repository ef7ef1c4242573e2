package llrb

import "fmt"
import "sort"
import "strings"
import "sync/atomic"

import humanize "github.com/dustin/go-humanize"
import "github.com/bnclabs/rdms/dbs"
import "github.com/bnclabs/rdms/lib"
import "github.com/bnclabs/rdms/log"

// Stats return index statistics, counters are prefixed with `n_`,
// histograms with `h_`, and gate statistics with `spinlock.`. Writes
// are blocked until Stats return.
func (t *LLRB[K, V, D]) Stats() map[string]interface{} {
	r := t.gate.RLock()
	defer r.Unlock()

	stats := map[string]interface{}{
		"n_count":     atomic.LoadInt64(&t.n_count),
		"n_lookups":   atomic.LoadInt64(&t.n_lookups),
		"n_ranges":    atomic.LoadInt64(&t.n_ranges),
		"n_inserts":   t.n_inserts,
		"n_updates":   t.n_updates,
		"n_deletes":   t.n_deletes,
		"n_removes":   t.n_removes,
		"n_casfails":  t.n_casfails,
		"n_nodes":     t.n_nodes,
		"n_clones":    t.n_clones,
		"n_compacts":  t.n_compacts,
		"n_purged":    t.n_purged,
		"n_commits":   t.n_commits,
		"footprint":   atomic.LoadInt64(&t.footprint),
		"memcapacity": t.memcapacity,
		"seqno":       atomic.LoadUint64(&t.seqno),
	}
	stats["h_upsertdepth"] = t.h_upsertdepth.Fullstats()

	h_height := lib.NewHistogram(1, 256, 1)
	heightstats(t.root.Load(), 1, h_height)
	stats["h_height"] = h_height.Fullstats()

	for k, v := range t.gate.Stats() {
		stats["spinlock."+k] = v
	}
	return stats
}

func heightstats[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	nd *Llrbnode[K, V, D], depth int64, h *lib.Histogram) {

	if nd == nil {
		return
	}
	h.Add(depth)
	heightstats(nd.left, depth+1, h)
	heightstats(nd.right, depth+1, h)
}

// Log index statistics, memory values are humanized.
func (t *LLRB[K, V, D]) Log() {
	stats := t.Stats()

	footprint, memcap := stats["footprint"].(int64), stats["memcapacity"].(int64)
	utilization := float64(0)
	if memcap > 0 {
		utilization = float64(footprint) / float64(memcap) * 100
	}
	fmsg := "%v footprint %v of %v capacity (%.2f%%), %v entries, seqno %v\n"
	log.Infof(
		fmsg, t.logprefix, humanize.Bytes(uint64(footprint)),
		humanize.Bytes(uint64(memcap)), utilization, stats["n_count"],
		stats["seqno"])

	counters := []string{}
	for k, v := range stats {
		if strings.HasPrefix(k, "n_") || strings.HasPrefix(k, "spinlock.") {
			counters = append(counters, fmt.Sprintf("%v:%v", k, v))
		}
	}
	sort.Strings(counters)
	log.Infof("%v %v\n", t.logprefix, strings.Join(counters, " "))

	for _, k := range []string{"h_upsertdepth", "h_height"} {
		text := lib.Prettystats(stats[k].(map[string]interface{}), false)
		log.Infof("%v %v %v\n", t.logprefix, k, text)
	}
}
