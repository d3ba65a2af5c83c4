package utils

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidState is returned when NormalizeUSState is given an unknown value.
var ErrInvalidState = errors.New("invalid US state or territory")

var nonAlphaNum = regexp.MustCompile(`[^A-Z0-9]+`)

// usStates lists every USPS state, territory and military code with the
// spellings (punctuation and spaces removed) accepted for it.
var usStates = map[string][]string{
	"AL": {"ALABAMA", "ALA"},
	"AK": {"ALASKA"},
	"AZ": {"ARIZONA", "ARIZ"},
	"AR": {"ARKANSAS", "ARK"},
	"CA": {"CALIFORNIA", "CALIF", "CAL"},
	"CO": {"COLORADO", "COLO"},
	"CT": {"CONNECTICUT", "CONN"},
	"DE": {"DELAWARE", "DEL"},
	"FL": {"FLORIDA", "FLA"},
	"GA": {"GEORGIA"},
	"HI": {"HAWAII"},
	"ID": {"IDAHO"},
	"IL": {"ILLINOIS", "ILL"},
	"IN": {"INDIANA", "IND"},
	"IA": {"IOWA"},
	"KS": {"KANSAS", "KAN"},
	"KY": {"KENTUCKY"},
	"LA": {"LOUISIANA"},
	"ME": {"MAINE"},
	"MD": {"MARYLAND"},
	"MA": {"MASSACHUSETTS", "MASS"},
	"MI": {"MICHIGAN", "MICH"},
	"MN": {"MINNESOTA", "MINN"},
	"MS": {"MISSISSIPPI", "MISS"},
	"MO": {"MISSOURI"},
	"MT": {"MONTANA", "MONT"},
	"NE": {"NEBRASKA", "NEB", "NEBR"},
	"NV": {"NEVADA", "NEV"},
	"NH": {"NEWHAMPSHIRE"},
	"NJ": {"NEWJERSEY"},
	"NM": {"NEWMEXICO"},
	"NY": {"NEWYORK"},
	"NC": {"NORTHCAROLINA"},
	"ND": {"NORTHDAKOTA"},
	"OH": {"OHIO"},
	"OK": {"OKLAHOMA", "OKLA"},
	"OR": {"OREGON", "ORE", "OREG"},
	"PA": {"PENNSYLVANIA", "PENN"},
	"RI": {"RHODEISLAND"},
	"SC": {"SOUTHCAROLINA"},
	"SD": {"SOUTHDAKOTA"},
	"TN": {"TENNESSEE", "TENN"},
	"TX": {"TEXAS", "TEX"},
	"UT": {"UTAH"},
	"VT": {"VERMONT"},
	"VA": {"VIRGINIA"},
	"WA": {"WASHINGTON", "WASH"},
	"WV": {"WESTVIRGINIA", "WVA"},
	"WI": {"WISCONSIN", "WIS", "WISC"},
	"WY": {"WYOMING", "WYO"},
	"DC": {"DISTRICTOFCOLUMBIA"},
	"PR": {"PUERTORICO"},
	"GU": {"GUAM"},
	"VI": {"VIRGINISLANDS", "USVI"},
	"AS": {"AMERICANSAMOA", "AMSAM"},
	"MP": {"CNMI", "NMARIANAS"},
	"UM": {"UMOI"},
	"AA": {"ARMEDFORCESAMERICASEXCEPTCANADA"},
	"AE": {"ARMEDFORCESEUROPEMIDDLEEASTAFRICACANADA"},
	"AP": {"ARMEDFORCESPACIFIC"},
}

var stateLookup = func() map[string]string {
	m := make(map[string]string, len(usStates)*3)
	for code, spellings := range usStates {
		m[code] = code
		for _, s := range spellings {
			m[s] = code
		}
	}
	return m
}()

// NormalizeUSState returns the canonical two-letter USPS code for the given
// input. It is case-insensitive and ignores punctuation and whitespace.
func NormalizeUSState(s string) (string, error) {
	cleaned := nonAlphaNum.ReplaceAllString(strings.ToUpper(s), "")
	if code, ok := stateLookup[cleaned]; ok {
		return code, nil
	}
	return "", ErrInvalidState
}

// USStateCodes returns every accepted code in sorted order.
func USStateCodes() []string {
	codes := make([]string, 0, len(usStates))
	for code := range usStates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
