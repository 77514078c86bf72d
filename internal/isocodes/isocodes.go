// Package isocodes maps the two-letter country codes used as element ids in
// the Europe map SVG to the three-letter codes the dataset is keyed by.
package isocodes

import (
	"fmt"
	"strings"
)

// Pair is one two-letter to three-letter mapping.
type Pair struct {
	Two   string
	Three string
}

// Table lists every country on the map in rewrite order.
var Table = []Pair{
	{"AT", "AUT"}, {"BE", "BEL"}, {"BG", "BGR"}, {"HR", "HRV"},
	{"CY", "CYP"}, {"CZ", "CZE"}, {"DK", "DNK"}, {"EE", "EST"},
	{"FI", "FIN"}, {"FR", "FRA"}, {"DE", "DEU"}, {"GR", "GRC"},
	{"HU", "HUN"}, {"IE", "IRL"}, {"IT", "ITA"}, {"LV", "LVA"},
	{"LT", "LTU"}, {"LU", "LUX"}, {"MT", "MLT"}, {"NL", "NLD"},
	{"PL", "POL"}, {"PT", "PRT"}, {"RO", "ROU"}, {"SK", "SVK"},
	{"SI", "SVN"}, {"ES", "ESP"}, {"SE", "SWE"}, {"AL", "ALB"},
	{"AD", "AND"}, {"AM", "ARM"}, {"BY", "BLR"}, {"BA", "BIH"},
	{"FO", "FRO"}, {"GE", "GEO"}, {"GI", "GIB"}, {"IS", "ISL"},
	{"IM", "IMN"}, {"XK", "XKX"}, {"LI", "LIE"}, {"MK", "MKD"},
	{"MD", "MDA"}, {"MC", "MCO"}, {"ME", "MNE"}, {"NO", "NOR"},
	{"RU", "RUS"}, {"SM", "SMR"}, {"RS", "SRB"}, {"CH", "CHE"},
	{"TR", "TUR"}, {"UA", "UKR"}, {"GB", "GBR"}, {"VA", "VAT"},
}

var twoToThree = func() map[string]string {
	m := make(map[string]string, len(Table))
	for _, p := range Table {
		m[p.Two] = p.Three
	}
	return m
}()

// ToThree returns the three-letter code for a two-letter code, in either
// case.
func ToThree(two string) (string, bool) {
	three, ok := twoToThree[strings.ToUpper(two)]
	return three, ok
}

// Warning reports an id attribute that did not occur exactly once.
type Warning struct {
	Tag   string
	Count int
}

func (w Warning) String() string {
	return fmt.Sprintf("%s, count %d", w.Tag, w.Count)
}

// RewriteSVGIDs replaces every id="xx" attribute (lower-case two-letter
// code) with id="XXX". Ids that appear zero or several times are still
// replaced where found and reported as warnings.
func RewriteSVGIDs(svg string) (string, []Warning) {
	var warnings []Warning
	for _, p := range Table {
		oldTag := `id="` + strings.ToLower(p.Two) + `"`
		if n := strings.Count(svg, oldTag); n != 1 {
			warnings = append(warnings, Warning{Tag: oldTag, Count: n})
		}
		svg = strings.ReplaceAll(svg, oldTag, `id="`+p.Three+`"`)
	}
	return svg, warnings
}
