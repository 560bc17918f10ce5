// Package version computes version numbers for audit form lineages.
//
// A blank template sits at version 0. The first fill of a template produces a
// form at version 1, and every subsequent edit of that lineage increments by
// one. Assignment itself is a pure function; the guarantee that a lineage
// never reuses a number is enforced at the persistence layer, where a unique
// (lineage, version) index turns a concurrent duplicate into a conflict
// error instead of a silent overwrite.
package version

// Next returns the version number that should follow prior. Negative input is
// treated as absent (0), so the first form of any lineage is version 1.
func Next(prior int) int {
	if prior < 0 {
		prior = 0
	}
	return prior + 1
}
