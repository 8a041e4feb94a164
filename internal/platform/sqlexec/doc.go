// Package sqlexec runs parameterized statements against a relational store and
// returns the results as plain rows.
//
// Statements are always written with "?" placeholders. The Dialect in use
// rewrites them into the store's native form, extracts generated keys after an
// insert, and translates driver failures into *store.StoreError values that
// keep the native code and message. Nothing is retried.
package sqlexec
