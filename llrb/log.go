package llrb

import "sync/atomic"

import "github.com/bnclabs/rdms/log"

var logok = int64(0)

// LogComponents enable logging. By default logging is disabled, if
// applications want log information for llrb components call this
// function with "self" or "all" or "llrb" as argument.
func LogComponents(components ...string) {
	for _, comp := range components {
		switch comp {
		case "llrb", "self", "all":
			atomic.StoreInt64(&logok, 1)
		}
	}
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Debugf(format, v...)
	}
}

func infof(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Infof(format, v...)
	}
}

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Warnf(format, v...)
	}
}

// fatalf always log and panic, gating only applies to other levels.
func fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}
