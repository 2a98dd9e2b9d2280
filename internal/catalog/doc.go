// Package catalog loads the reference title catalog that folder names are
// matched against.
//
// Two formats are supported: a JSON file holding either a plain array of
// titles or an array of title objects, and an existing SQLite database read
// through a configurable table and column pair. Alternate titles of one series
// share a payload so the resolver never treats them as competing candidates.
package catalog
