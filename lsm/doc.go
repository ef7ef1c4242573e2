// Package lsm implement log-structured-merge of sorted entry streams
// and point lookups across levels. Levels are ordered oldest first,
// entries for the same key across levels are combined with
// dbs.Entry.Commit so that the merged entry carry versions from every
// level.
package lsm
