package http

import "strings"

// ParseLinkHeader extracts rel="next" and rel="prev" URLs from an RFC 5988
// Link header. Some endpoints advertise pagination here instead of in the
// response body's _metadata block.
func ParseLinkHeader(header string) (next, prev string) {
	if header == "" {
		return "", ""
	}

	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(strings.TrimSpace(part), ";")
		if len(segments) < 2 {
			continue
		}

		target := strings.Trim(strings.TrimSpace(segments[0]), "<>")

		for _, segment := range segments[1:] {
			segment = strings.TrimSpace(segment)

			switch {
			case segment == `rel="next"` || segment == "rel=next":
				next = target
			case segment == `rel="prev"` || segment == "rel=prev":
				prev = target
			}
		}
	}

	return next, prev
}
