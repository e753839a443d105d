// Package tasks runs long catalog jobs with progress reporting.
//
// # Report Export
//
// [Exporter.Export] renders a set of [Report] values into an output directory
// using a small worker pool:
//
//   - a producer feeds report jobs to the workers, optionally rate limited
//   - each worker runs its report query and writes one file in the chosen format
//   - results are collected, sorted by report name and summarised in
//     export_manifest.json
//
// A failing report does not stop the export. It is recorded in the manifest
// with its error.
//
// # Progress Reporting
//
// Progress is sent as [ProgressUpdate] values on an optional channel. Sends
// never block: when the channel is full the update is dropped.
package tasks
