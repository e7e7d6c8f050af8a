// Package types defines the Manager and Table interfaces, the row and
// document value types, configuration, and standard errors for the jsonstore
// record store.
//
// A table is a sequence of flat rows. Columns are never declared: they are
// the ordered union of the keys the rows hold, appearing when an inserted row
// introduces a key and disappearing when no row keeps a non-null value for
// it. Rows and documents preserve key order, so a table survives a load and
// save cycle byte for byte.
package types
