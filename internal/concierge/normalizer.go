package concierge

import (
	"regexp"
	"strings"

	"github.com/campushub/concierge-go/internal/sliceutil"
)

// Messages never carry raw coordinates. Clients render locations from the
// structured payload, so any coordinate text in a message is model noise.
var (
	labeledCoordPattern = regexp.MustCompile(`(?i)\b(?:lat(?:itude)?|lng|lon(?:gitude)?)\s*[:=]?\s*-?\d{1,3}(?:\.\d+)?`)
	coordPairPattern    = regexp.MustCompile(`-?\d{1,3}\.\d+\s*[,;:/]?\s*-?\d{1,3}\.\d+`)
	extraSpacePattern   = regexp.MustCompile(`\s{2,}`)
)

const defaultUnknownMessage = "Sorry, I could not find that on campus. Try asking about a building, office, or service by name."

// Normalize enforces the response contract on a resolved answer:
// coordinate-free message text, deduplicated locations, a valid
// intent/action pair consistent with the location count, and a non-empty
// message. It is safe to apply more than once.
func Normalize(resp *Response) *Response {
	if resp == nil {
		return &Response{
			Intent:    IntentUnknown,
			Action:    ActionShowLocation,
			Message:   defaultUnknownMessage,
			Locations: []Location{},
		}
	}

	out := *resp

	if !ValidIntent(out.Intent) {
		out.Intent = IntentUnknown
	}
	if !ValidAction(out.Action) {
		out.Action = ActionShowLocation
	}

	out.Locations = sliceutil.Deduplicate(out.Locations, func(l Location) string {
		return l.BuildingID
	})
	if out.Locations == nil {
		// Clients always receive a JSON array, never null.
		out.Locations = []Location{}
	}

	switch out.Action {
	case ActionShowMultipleLocations:
		if len(out.Locations) < 2 {
			out.Action = ActionShowLocation
		}
	case ActionShowRoute:
		// A route with a single stop keeps its action: the origin is the
		// asker's current position. With nothing resolved there is no
		// route to draw.
		if len(out.Locations) == 0 {
			out.Action = ActionShowLocation
		}
	case ActionShowLocation:
		if len(out.Locations) >= 2 {
			out.Action = ActionShowMultipleLocations
		}
	}

	out.Message = scrubMessage(out.Message)
	if out.Message == "" {
		if len(out.Locations) > 0 {
			out.Message = "Here is what I found on the campus map."
		} else {
			out.Message = defaultUnknownMessage
		}
	}

	return &out
}

func scrubMessage(message string) string {
	cleaned := labeledCoordPattern.ReplaceAllString(message, "")
	cleaned = coordPairPattern.ReplaceAllString(cleaned, "")
	cleaned = extraSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	// Stripping can leave dangling separators at either end.
	cleaned = strings.Trim(cleaned, ",;:/ ")
	return strings.TrimSpace(cleaned)
}
