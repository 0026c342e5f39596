// Package genai provides the generative fallback for campus queries.
// This file validates and decodes the model's JSON payload.
package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/campushub/concierge-go/internal/concierge"
	ierr "github.com/campushub/concierge-go/internal/errors"
	"github.com/campushub/concierge-go/internal/kb"
)

// responseSchema is the contract every model payload must satisfy before
// it is trusted. Anything outside it is a malformed-fallback error, never
// a best-effort guess.
const responseSchema = `{
  "type": "object",
  "required": ["message", "action", "locations"],
  "properties": {
    "message": {"type": "string", "minLength": 1},
    "action": {
      "type": "string",
      "enum": ["show_route", "show_location", "show_multiple_locations"]
    },
    "locations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["building_id", "building_name", "coordinates"],
        "properties": {
          "building_id": {"type": "string", "minLength": 1},
          "building_name": {"type": "string", "minLength": 1},
          "coordinates": {
            "type": "object",
            "required": ["lat", "lng"],
            "properties": {
              "lat": {"type": "number"},
              "lng": {"type": "number"}
            }
          },
          "service_name": {"type": ["string", "null"]},
          "service_location": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var compiledSchema = gojsonschema.NewStringLoader(responseSchema)

type wireCoordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type wireLocation struct {
	BuildingID      string          `json:"building_id"`
	BuildingName    string          `json:"building_name"`
	Coordinates     wireCoordinates `json:"coordinates"`
	ServiceName     *string         `json:"service_name"`
	ServiceLocation *string         `json:"service_location"`
}

type wirePayload struct {
	Message   string         `json:"message"`
	Locations []wireLocation `json:"locations"`
	Action    string         `json:"action"`
}

// decodeResponse validates raw model output against the response schema
// and maps it onto the response type. The intent is derived from the
// action because the model is only asked for message, locations, and
// action.
func decodeResponse(provider Provider, raw string) (*concierge.Response, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return nil, ierr.NewMalformedError(provider.String(), errors.New("empty model output"))
	}

	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, ierr.NewMalformedError(provider.String(), fmt.Errorf("payload is not valid JSON: %w", err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, ierr.NewMalformedError(provider.String(), fmt.Errorf("schema violations: %s", strings.Join(details, "; ")))
	}

	var payload wirePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, ierr.NewMalformedError(provider.String(), err)
	}

	locations := make([]concierge.Location, 0, len(payload.Locations))
	for _, wire := range payload.Locations {
		loc := concierge.Location{
			BuildingID: wire.BuildingID,
			Name:       wire.BuildingName,
			Coordinates: kb.Coordinates{
				Latitude:  wire.Coordinates.Lat,
				Longitude: wire.Coordinates.Lng,
			},
		}
		if wire.ServiceName != nil {
			loc.ServiceName = *wire.ServiceName
		}
		if wire.ServiceLocation != nil {
			loc.ServiceLocation = *wire.ServiceLocation
		}
		locations = append(locations, loc)
	}

	return &concierge.Response{
		Intent:    intentForAction(concierge.Action(payload.Action)),
		Action:    concierge.Action(payload.Action),
		Message:   payload.Message,
		Locations: locations,
		Source:    concierge.SourceFallback,
	}, nil
}

func intentForAction(action concierge.Action) concierge.Intent {
	if action == concierge.ActionShowRoute {
		return concierge.IntentRouteNavigation
	}
	return concierge.IntentLocationLookup
}

// stripCodeFences removes markdown code fences some models wrap around
// JSON output despite instructions.
func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
