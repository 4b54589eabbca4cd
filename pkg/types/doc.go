// Package types defines the Row and Table values shared by the csvdesk
// engine, the configuration record, and the standard error values.
//
// A Table is an ordered sequence of rows. When a table is non-empty its first
// row is the header and every following row is a data row. All cells are
// text; no schema or type inference is applied.
package types
