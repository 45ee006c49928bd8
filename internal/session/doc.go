// Package session keeps the generated dataset of each client between requests.
//
// Sessions are keyed by UUID and held in a byte-bounded LRU. Memory is
// additionally accounted against a shared resource.Controller, so a busy
// server evicts idle sessions instead of growing without bound.
package session
