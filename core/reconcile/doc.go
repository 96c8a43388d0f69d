// Package reconcile proposes replacement identifiers for dangling references
// found in the invoicing dataset.
//
// The legacy spreadsheet import produced several malformed identifier
// conventions: type prefixes on ids that were stored without them
// ("cust_plettenberg_bay"), compound parent__branch ids, inconsistent
// underscore separators, and outright corrupt cells. The engine attacks a
// dangling reference with a fixed-priority strategy chain:
//
//  1. Prefix strip: remove the conventional type prefix and look the
//     remainder up directly.
//  2. Compound split: split the remainder on "__" and try the last segment
//     (branch/location), then the first (parent entity).
//  3. Normalization variants: collapse repeated separators, strip all
//     separators, replace separators with spaces.
//  4. Containment and similarity fallback: substring containment in either
//     direction over the lexicographically sorted candidate list, then the
//     pluggable Scorer. Candidates at or above the auto-apply ratio are
//     accepted; the suggestion band is reported for manual review only.
//
// The first successful strategy wins; there is no cross-strategy scoring.
// References judged corrupt (shorter than the configured minimum) are
// skipped outright rather than matched to an arbitrary nearest candidate.
//
// Propose has no side effects. Accepted mappings are applied by the repair
// feature, which requires the mapping target to already be a member of the
// reference index.
package reconcile
