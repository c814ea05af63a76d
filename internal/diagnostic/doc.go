// Package diagnostic provides the two reporting channels of a mapping run.
//
//   - Diagnostics: structural findings produced before execution
//     (missing fields, duplicate ids, unavailable conversions). Any error
//     finding blocks execution of the whole session.
//   - Audits: per-field records produced while mappings execute. An ERROR
//     audit only aborts the field that raised it.
//
// Neither channel is ever truncated during a run; callers read them after
// the session completes.
package diagnostic
