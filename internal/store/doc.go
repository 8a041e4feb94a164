// Package store defines interfaces for data persistence operations and the
// error taxonomy shared by every store implementation.
//
// Store failures surface as *StoreError values that carry the native error
// code and message of the relational store. They are never retried or
// swallowed: the calling test decides what an error means.
package store
