// Package capability provides parsing and allow-list matching for capability
// names, the string identifiers under which automated callers invoke
// state-changing operations.
//
// Capability names are opaque tokens such as "search" or "cart.add" that can
// be combined into white-space separated lists ("search cart.add checkout").
// The package helps you parse, compare and normalise such collections while
// supporting hierarchical names and wild-cards.
//
// # Overview
//
// A capability name is opaque, but the package understands three syntactic
// conventions:
//
//   - Separator (" ") white-space between individual names inside a list
//     string.
//   - Delimiter (".") hierarchy delimiter that allows prefixes such as
//     "cart.*" to match all names starting with "cart.".
//   - Wildcard ("*") matches everything or, when used as a suffix
//     (e.g. "cart.*"), everything inside a hierarchy.
//
// # Usage
//
//	import "github.com/gatekit/gatekit/pkg/capability"
//
//	allow := capability.Parse("search cart.*")
//
//	if capability.Allowed(allow, "cart.add") {
//	    // permitted
//	}
//
//	snapshot := capability.Normalize(allow) // deduplicated, sorted copy
//
// # Error Handling
//
// The package exposes two sentinel errors, matchable with errors.Is:
//
//   - ErrInvalidName – the supplied name is syntactically invalid.
//   - ErrNotAllowed  – the name is not in the allow-list.
package capability
