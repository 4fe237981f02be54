// Package core provides the catalog import, reconciliation and export logic.
//
// This package holds the domain logic of the catalog importer, independent of
// any transport layer. It is used by the HTTP handlers, the posctl CLI and
// tests without modification.
//
// # Import Pipeline
//
// An import runs through [Importer.Import]:
//
//  1. The reader is wrapped with BOM skipping and UTF-8 sanitization
//  2. [ParseCatalog] (or [ParseWorkbook] for .xlsx) reads rows keyed by
//     canonical column names; rows with the wrong field count are dropped
//  3. [RowValidator] checks every row; any error aborts with zero writes
//  4. [GroupRows] attaches variant rows to the preceding product row
//  5. [Reconciler] creates or updates each group, barcode first then SKU
//
// A persistence failure aborts only its own group. The result lists one
// warning per write and one error per failed group, in file order.
//
// # Concurrency
//
// The reconciler runs groups on a bounded worker pool. Groups that share an
// identifier, or that resolve to the same stored record, run in one lane in
// file order, so the final catalog matches a sequential run. Concurrent
// imports are bounded separately by [ImportLimiter].
//
// # Storage
//
// [CatalogStore] and [CatalogReader] are implemented by [PostgresCatalog]
// and by [MemoryCatalog] for tests and dry runs. Finished reports are kept in
// a [ReportStore]: [RedisReportStore] when Redis is configured, otherwise
// [MemoryReportStore].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB007: Database errors (duplicates, constraints, connections)
//   - VAL001-VAL007: Validation errors (numbers, missing columns, formats)
//   - FILE001-FILE005: File errors (size, encoding, format, empty)
//   - UPL001-UPL005: Import errors (cancelled, busy, report not found)
//   - INV001-INV002: Invoice intake errors
//   - SET001: Settings errors
package core
