package store

// Row is one result row keyed by column name. Values keep the types returned
// by the driver, except that raw byte values are converted to strings.
type Row map[string]any
