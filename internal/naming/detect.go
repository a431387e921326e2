package naming

import (
	"errors"
)

// ErrNoStyleDetected is returned when no file name matches any known style.
var ErrNoStyleDetected = errors.New("no naming style detected")

// ambiguousAt is the file count at or below which the Flat/Absolute
// decision is flagged as unreliable.
const ambiguousAt = 2

// Detection is the outcome of style detection over a directory listing.
type Detection struct {
	Style Style `json:"style"`
	// Reclassified is set when a Flat match was reinterpreted as Absolute.
	Reclassified bool `json:"reclassified,omitempty"`
	// Ambiguous marks a Flat/Absolute decision made over very few files.
	Ambiguous bool `json:"ambiguous,omitempty"`
	// MinNumber is the smallest leading number seen in the Flat check.
	MinNumber int `json:"min_number,omitempty"`
}

// Detect infers the naming style of a set of file names.
//
// The first style in declaration order matching any name wins. A Flat result is
// then checked against the smallest leading number across all names (extensions
// stripped): a minimum of 0 or 1 cannot be a season-prefixed number, so the
// style becomes Absolute.
func Detect(names []string) (Detection, error) {
	style := firstMatching(names)
	if style == StyleNone {
		return Detection{Style: StyleNone}, ErrNoStyleDetected
	}

	det := Detection{Style: style}
	if style != Flat {
		return det, nil
	}

	minimum, counted := -1, 0
	for _, name := range names {
		_, value, ok := FirstNumber(Stem(name))
		if !ok {
			continue
		}
		counted++
		if minimum < 0 || value < minimum {
			minimum = value
		}
	}

	det.MinNumber = minimum
	det.Ambiguous = counted <= ambiguousAt
	if minimum >= 0 && minimum <= 1 {
		det.Style = Absolute
		det.Reclassified = true
	}

	return det, nil
}

func firstMatching(names []string) Style {
	for _, style := range Styles() {
		for _, name := range names {
			if Matches(style, name) {
				return style
			}
		}
	}
	return StyleNone
}
