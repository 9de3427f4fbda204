// Package mmfile provides platform-specific helpers for anonymous memory
// mappings used as buffer backing store.
package mmfile
