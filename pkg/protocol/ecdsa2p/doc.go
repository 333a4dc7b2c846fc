// Package ecdsa2p implements the Lindell-2017 two-party ECDSA protocol:
// four-message key generation, two-message chain-code agreement, two-message
// signing, and a coin-flip key rotation, all driven by the session store
// rather than an in-process job.
//
// The teacher's pkg/cbmpc/ecdsa2p package exposes this same protocol shape
// (Key, DKG, Sign, Refresh) but delegates every operation to a cgo-wrapped
// C++ core through a Job2P. This package keeps the naming and the
// request/response shape but implements the math directly in Go, because
// the server here drives the protocol one HTTP round at a time instead of
// running both parties inside a single process.
package ecdsa2p
