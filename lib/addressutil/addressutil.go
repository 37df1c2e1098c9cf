// Package addressutil decomposes the appraisal district's free-text
// street names into USPS-style parts and canonicalizes parcel
// identifiers. The directional and suffix vocabularies are embedded
// reference data (see usps_suffixes.json / directionals.json) rather
// than code.
package addressutil

import (
	_ "embed"
	"encoding/json"
	"strings"
)

//go:embed usps_suffixes.json
var uspsSuffixesJSON []byte

//go:embed directionals.json
var directionalsJSON []byte

var suffixes map[string]string
var directionals map[string]string

func init() {
	if err := json.Unmarshal(uspsSuffixesJSON, &suffixes); err != nil {
		panic(err)
	}
	if err := json.Unmarshal(directionalsJSON, &directionals); err != nil {
		panic(err)
	}
}

// StreetParts is the decomposition of a raw street name. Empty fields
// mean the corresponding token was not present.
type StreetParts struct {
	PreDirectional  string
	Name            string
	SuffixType      string
	PostDirectional string
}

// SplitStreetName tokenizes an upper-cased street name and pops, in
// order: a leading directional, a trailing directional, then a
// trailing USPS suffix. Suffix detection runs only on the token left
// after both directional positions are checked, so "NORTH AVENUE W"
// keeps AVENUE as the suffix rather than the name. The remainder is
// title-cased. Running the output's Name back through yields the same
// decomposition.
func SplitStreetName(raw string) StreetParts {
	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(raw)))
	var parts StreetParts

	if len(tokens) > 0 {
		if d, ok := directionals[tokens[0]]; ok {
			parts.PreDirectional = d
			tokens = tokens[1:]
		}
	}
	if len(tokens) > 0 {
		if d, ok := directionals[tokens[len(tokens)-1]]; ok {
			parts.PostDirectional = d
			tokens = tokens[:len(tokens)-1]
		}
	}
	if len(tokens) > 0 {
		if s, ok := suffixes[tokens[len(tokens)-1]]; ok {
			parts.SuffixType = s
			tokens = tokens[:len(tokens)-1]
		}
	}

	parts.Name = TitleWords(strings.Join(tokens, " "))
	return parts
}

// TitleWords capitalizes each whitespace-separated word, used for
// city names and street base names ("VIA MESSINA" -> "Via Messina").
func TitleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// CanonicalParcelID strips the separator characters ("-" and ".")
// the district embeds in STRAP identifiers. All other characters are
// preserved verbatim, which makes the operation idempotent.
func CanonicalParcelID(raw string) string {
	return strings.NewReplacer("-", "", ".", "").Replace(raw)
}
