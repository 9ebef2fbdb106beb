// Package storage is the key-value layer behind the course registry.
// It uses BadgerDB, in memory by default or on disk when given a directory.
package storage
