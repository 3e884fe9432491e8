// Package rewrite replaces hard-coded path literals in PHP sources.
//
// Two policies exist and a Classifier picks one per file:
//
//   - Core file: the first chdir(...) statement is removed and the first
//     relative literal ('../x' or "./x") is replaced with the relativized
//     path to the anchor include. Later matches are left alone.
//   - Regular file: every quoted absolute literal starting with the
//     configured prefix (for example "/info/...") is replaced with an
//     expression relative to the file. Relative literals are left alone.
//
// Matching is purely textual. The quote characters around a literal are not
// required to agree, so "/info/a/b.php' is accepted too.
package rewrite
