// Package route resolves phone location addresses to access patterns.
//
// An address names either the whole collection or a slice of it:
//
//	/phonelocation                        Collection
//	/phonelocation/{id}                   ById
//	/phonelocation/bynumber/{number}      ByNumber
//	/phonelocation/byphonetype/{type}     ByPhoneType
//	/phonelocation/bylocation/{location}  ByLocation
//
// A scheme prefix is accepted and ignored ("content://phonelocation/12").
// Segments are percent-decoded; a '%' that does not start a valid escape is
// taken literally ("bynumber/50%off" has the value "50%off").
//
// Rules are an explicit ordered slice built once with DefaultRules and handed
// to New. The Router copies them and never mutates them afterwards, so a
// Router is safe for concurrent use and Resolve has no side effects.
package route
