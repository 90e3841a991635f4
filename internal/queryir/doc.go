// Package queryir provides the filter and ordering representation used by the
// phone location store.
//
// Predicates are built by the address router (one Equals per address
// pattern) and by callers (arbitrary conjunctions of comparisons). The two are
// combined with And and handed to querysql, which compiles them to
// parameterized SQL.
//
// SEALED INTERFACES:
//
// Predicate is sealed using the marker method pattern. Only types in this
// package implement it, so compilers can switch exhaustively:
//
//	switch p := pred.(type) {
//	case Equals:
//	case Compare:
//	case And:
//	}
//
// The fragment is deliberately small: equality, ordered comparison, LIKE and
// conjunction. There is no OR, no subquery and no function call.
package queryir
