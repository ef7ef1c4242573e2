package api

import "errors"

// ErrorKeyMissing operation cannot succeed because specified key is missing
// in the index.
var ErrorKeyMissing = errors.New("keyMissing")

// ErrorInvalidCAS operation cannot succeed because CAS value does not
// match with the entry's current seqno.
var ErrorInvalidCAS = errors.New("invalidCAS")

// ErrorKeyMismatch operation cannot succeed because two entries that
// were expected to carry the same key differ.
var ErrorKeyMismatch = errors.New("keyMismatch")

// ErrorNotImplemented returned by disabled stand-ins for collaborators
// like on-disk table writers.
var ErrorNotImplemented = errors.New("notImplemented")

// ErrorStaleSeqno operation cannot succeed because an externally
// supplied seqno is not newer than the entry's current seqno.
var ErrorStaleSeqno = errors.New("staleSeqno")

// ErrorUnsortedKeys operation cannot succeed because a stream of
// entries is not in strictly ascending key order.
var ErrorUnsortedKeys = errors.New("unsortedKeys")
