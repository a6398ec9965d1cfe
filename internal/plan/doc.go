// Package plan implements the integration plan: the text format the user
// edits, its canonical in-memory form, and the structural validation that
// makes a plan realizable as a set of stacked review branches.
//
// It is the pure core of flok, responsible for:
//   - Parsing plan text against the local commit sequence
//   - Canonicalizing deltas (labels, dependencies, ordering)
//   - Validating the non-crossing stack constraint
//   - Deriving stable branch names from anchor commit messages
//   - Serializing a canonical plan back to editable text
//
// Nothing in this package touches the repository; the git backend is
// consumed by internal/engine.
package plan
