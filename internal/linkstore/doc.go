// Package linkstore persists folder-to-series links in SQLite.
//
// A link records the folder's name and absolute path, the payload of the
// catalog entry it resolved to (NULL when nothing matched), the best score,
// whether the match cleared the acceptance policy, and the metric and run that
// produced it. Rejected matches stay in the table so they can be reviewed.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema. The index itself is never persisted here.
package linkstore
