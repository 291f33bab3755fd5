// Package variantx provides a closed-variant state engine: fixed, exhaustive
// sets of named variants with optional payloads, range classification,
// deterministic transition tables, and exhaustive per-variant dispatch.
//
// The core engine uses ONLY the Go standard library. Adapter packages
// (config, persist, runtime, cmd) may use external deps.
//
// Core invariants:
//   - Variant sets are closed at Build time; membership never changes.
//   - Classification is total: every input resolves to exactly one variant,
//     falling back to a designated default.
//   - Transition tables are deterministic; with RequireTotal every declared
//     variant has exactly one successor, and with RequireCycle the successor
//     relation is a single cycle covering the whole set.
//   - Dispatch tables are exhaustive: Build rejects a missing case, and no
//     default/fallthrough path exists.
//   - Values are immutable; a "mutation" is a fresh Value replacing the old
//     one at the call site.
package variantx
