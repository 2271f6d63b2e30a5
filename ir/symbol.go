package ir

import "golang.org/x/text/unicode/norm"

// Symbol is the IR's view of a resolved declaration. Instructions reference
// callees and fields through it, and modules index procedures by it.
type Symbol interface {
	Name() string
	FullName() string
}

// metadataName normalizes a source name before it is written into IR metadata,
// so names that differ only in Unicode composition compare equal downstream.
func metadataName(name string) string {
	return norm.NFC.String(name)
}
