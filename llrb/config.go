package llrb

import s "github.com/bnclabs/gosettings"
import sigar "github.com/cloudfoundry/gosigar"

// Defaultsettings for llrb instance.
//
// "spin" (bool, default: true),
//	Readers and writers waiting on the index gate busy-spin. If false,
//	they yield the processor on every retry.
//
// "lsm" (bool, default: false),
//	Log-Structured-Merge mode, applies to Apply and Replay. When true
//	upserts preserve older versions and deletes mark the entry as
//	deleted. When false upserts overwrite and deletes remove the entry
//	from the tree.
//
// "memcapacity" (int64, default: free RAM),
//	Memory budget for the index, Stats report footprint against this
//	capacity.
//
func Defaultsettings() s.Settings {
	_, _, free := getsysmem()
	setts := s.Settings{
		"spin":        true,
		"lsm":         false,
		"memcapacity": int64(free),
	}
	return setts
}

func (t *LLRB[K, V, D]) readsettings(setts s.Settings) *LLRB[K, V, D] {
	t.spin = setts.Bool("spin")
	t.lsm = setts.Bool("lsm")
	t.memcapacity = setts.Int64("memcapacity")
	return t
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
