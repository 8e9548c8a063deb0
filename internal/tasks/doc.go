// Package tasks turns favorite ID sets into catalog records.
//
// # Collecting
//
// [Collector.Collect] issues at most one lookup per kind, all three concurrently through an errgroup.
// Kinds without IDs are skipped without touching the network. A failed lookup is logged and replaced
// by an empty list so the other kinds still render.
//
// # Exporting
//
// [Collector.Export] collects and then writes the records via the formatter package, followed by an
// export_manifest.json listing the files and any failed kinds.
//
// # Progress Reporting
//
// Both operations accept an optional channel of [ProgressUpdate]. Sends use select with default, so a
// slow or absent reader never blocks a lookup.
package tasks
