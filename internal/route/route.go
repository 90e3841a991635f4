package route

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/phoneloc/internal/queryir"
	"github.com/roach88/phoneloc/internal/schema"
)

// Authority is the resource name every address starts with.
const Authority = "phonelocation"

// CollectionAddress addresses every record.
const CollectionAddress = "/" + Authority

// Pattern identifies which access pattern an address resolved to.
type Pattern int

const (
	NoMatch Pattern = iota
	Collection
	ByID
	ByNumber
	ByPhoneType
	ByLocation
)

var patternNames = map[Pattern]string{
	NoMatch:     "no_match",
	Collection:  "collection",
	ByID:        "by_id",
	ByNumber:    "by_number",
	ByPhoneType: "by_phone_type",
	ByLocation:  "by_location",
}

func (p Pattern) String() string {
	if name, ok := patternNames[p]; ok {
		return name
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// Match is the outcome of resolving an address.
type Match struct {
	Pattern Pattern

	// Address is the address as presented by the caller.
	Address string

	// Value is the decoded trailing segment for single-valued patterns.
	Value string

	// Predicate is the filter implied by the address; nil for Collection.
	Predicate queryir.Predicate
}

// Matched reports whether the address resolved to a known pattern.
func (m Match) Matched() bool {
	return m.Pattern != NoMatch
}

// Rule binds an address template to a pattern.
//
// Template segments are matched literally except for two wildcards, as in
// content-provider URI matchers:
//
//	#  a positive decimal integer
//	*  any non-empty segment
//
// The empty template matches the bare authority. Build derives the predicate
// from the segment captured by the final wildcard.
type Rule struct {
	Pattern  Pattern
	Template string
	Build    func(value string) queryir.Predicate
}

// DefaultRules returns the rule table for the phone location collection,
// in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: Collection, Template: ""},
		{Pattern: ByID, Template: "#", Build: func(v string) queryir.Predicate {
			id, _ := strconv.ParseInt(v, 10, 64)
			return queryir.Equals{Field: schema.ColID, Value: id}
		}},
		{Pattern: ByNumber, Template: "bynumber/*", Build: func(v string) queryir.Predicate {
			return queryir.Equals{Field: schema.ColNumber, Value: v}
		}},
		{Pattern: ByPhoneType, Template: "byphonetype/*", Build: func(v string) queryir.Predicate {
			return queryir.Equals{Field: schema.ColPhoneType, Value: v}
		}},
		{Pattern: ByLocation, Template: "bylocation/*", Build: func(v string) queryir.Predicate {
			return queryir.Equals{Field: schema.ColLocation, Value: norm.NFC.String(v)}
		}},
	}
}

type compiledRule struct {
	Rule
	segments []string
}

// Router resolves addresses against an immutable ordered rule table.
type Router struct {
	authority string
	rules     []compiledRule
}

// New creates a Router for authority over rules. Rules are evaluated in the
// given order; the first match wins.
func New(authority string, rules []Rule) *Router {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		compiled[i] = compiledRule{Rule: r, segments: splitSegments(r.Template)}
	}
	return &Router{authority: authority, rules: compiled}
}

// NewDefault creates the Router for the phone location collection.
func NewDefault() *Router {
	return New(Authority, DefaultRules())
}

// Resolve maps an address to a Match. Unrecognized addresses yield
// Match{Pattern: NoMatch}; callers must treat that as an error.
func (r *Router) Resolve(address string) Match {
	miss := Match{Pattern: NoMatch, Address: address}

	segs, ok := parseAddress(address)
	if !ok || len(segs) == 0 || segs[0] != r.authority {
		return miss
	}
	rest := segs[1:]

	for _, rule := range r.rules {
		value, ok := matchTemplate(rule.segments, rest)
		if !ok {
			continue
		}
		m := Match{Pattern: rule.Pattern, Address: address, Value: value}
		if rule.Build != nil {
			m.Predicate = rule.Build(value)
		}
		return m
	}
	return miss
}

// ItemAddress returns the ById address for id.
func ItemAddress(id int64) string {
	return CollectionAddress + "/" + strconv.FormatInt(id, 10)
}

// NumberAddress returns the ByNumber address for number, escaping it so it
// survives as a single path segment.
func NumberAddress(number string) string {
	return CollectionAddress + "/bynumber/" + url.PathEscape(number)
}

// PhoneTypeAddress returns the ByPhoneType address for phoneType.
func PhoneTypeAddress(phoneType string) string {
	return CollectionAddress + "/byphonetype/" + url.PathEscape(phoneType)
}

// LocationAddress returns the ByLocation address for location.
func LocationAddress(location string) string {
	return CollectionAddress + "/bylocation/" + url.PathEscape(location)
}

// Segments returns the decoded, non-empty segments of address, authority
// first. It reports false for addresses that cannot be parsed.
func Segments(address string) ([]string, bool) {
	segs, ok := parseAddress(address)
	if !ok || len(segs) == 0 {
		return nil, false
	}
	return segs, true
}

// parseAddress splits an address into decoded, non-empty segments. For
// addresses with a scheme the authority (host) becomes the first segment.
// A '%' that does not start a valid escape is kept literally.
func parseAddress(address string) ([]string, bool) {
	if address == "" {
		return nil, false
	}
	u, err := url.Parse(escapeStrayPercent(address))
	if err != nil {
		return nil, false
	}

	var segs []string
	if u.Scheme != "" {
		if u.Host == "" {
			return nil, false
		}
		segs = append(segs, u.Host)
	} else if u.Host != "" || u.Opaque != "" {
		return nil, false
	}
	for _, raw := range splitSegments(u.EscapedPath()) {
		seg, err := url.PathUnescape(raw)
		if err != nil {
			return nil, false
		}
		segs = append(segs, seg)
	}
	return segs, true
}

// escapeStrayPercent rewrites every '%' not followed by two hex digits as
// "%25", so "50%off" decodes to itself instead of failing to parse.
func escapeStrayPercent(address string) string {
	if !strings.Contains(address, "%") {
		return address
	}
	var b strings.Builder
	b.Grow(len(address) + 4)
	for i := 0; i < len(address); i++ {
		c := address[i]
		if c == '%' && (i+2 >= len(address) || !isHex(address[i+1]) || !isHex(address[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func splitSegments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// matchTemplate matches path segments against template segments and returns
// the value captured by the last wildcard.
func matchTemplate(tmpl, segs []string) (string, bool) {
	if len(tmpl) != len(segs) {
		return "", false
	}
	var value string
	for i, t := range tmpl {
		s := segs[i]
		switch t {
		case "#":
			if !isPositiveInt(s) {
				return "", false
			}
			value = s
		case "*":
			value = s
		default:
			if t != s {
				return "", false
			}
		}
	}
	return value, true
}

func isPositiveInt(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && n > 0
}
