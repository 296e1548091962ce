// Package storage implements durable key-value stores for a portfolio
// snapshot: a directory of files, a Redis server, and memory.
//
// All implementations return an error wrapping fs.ErrNotExist from Get when
// the key was never written.
package storage
