// Package concierge implements the campus query resolution engine.
//
// A query first runs through the deterministic pipeline (keyword matcher,
// intent classifier, response builder). Only when the deterministic pass
// cannot answer with confidence does the engine consult the generative
// fallback, and every response from either path goes through the
// normalizer before it reaches a caller.
package concierge

import "github.com/campushub/concierge-go/internal/kb"

// Intent is the classified purpose of a campus query.
type Intent string

const (
	IntentProcessHowto    Intent = "process_howto"
	IntentOfficeLookup    Intent = "office_lookup"
	IntentPolicyQuery     Intent = "policy_query"
	IntentServiceLookup   Intent = "service_lookup"
	IntentLocationLookup  Intent = "location_lookup"
	IntentDeadlineQuery   Intent = "deadline_query"
	IntentRouteNavigation Intent = "route_navigation"
	IntentEscalation      Intent = "escalation"
	IntentUnknown         Intent = "unknown"
)

// Action tells the client how to render the response.
type Action string

const (
	ActionShowRoute             Action = "show_route"
	ActionShowLocation          Action = "show_location"
	ActionShowMultipleLocations Action = "show_multiple_locations"
)

// Confidence marks whether the deterministic pipeline trusts its own answer.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Source records which pipeline produced a response.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceFallback      Source = "fallback"
)

// Location is a resolved campus location in a response payload. The
// service fields are set when the query named a specific service housed
// in the building.
type Location struct {
	BuildingID      string         `json:"building_id"`
	Name            string         `json:"building_name"`
	Coordinates     kb.Coordinates `json:"coordinates"`
	ServiceName     string         `json:"service_name,omitempty"`
	ServiceLocation string         `json:"service_location,omitempty"`
}

// Response is the resolved answer for a single query.
type Response struct {
	Intent    Intent     `json:"intent"`
	Action    Action     `json:"action"`
	Message   string     `json:"message"`
	Locations []Location `json:"locations"`
	Source    Source     `json:"source"`
}

// Classification is the deterministic intent/action decision for a query.
type Classification struct {
	Intent     Intent
	Action     Action
	Confidence Confidence
}

// ValidIntent reports whether the value is a member of the intent taxonomy.
func ValidIntent(v Intent) bool {
	switch v {
	case IntentProcessHowto, IntentOfficeLookup, IntentPolicyQuery,
		IntentServiceLookup, IntentLocationLookup, IntentDeadlineQuery,
		IntentRouteNavigation, IntentEscalation, IntentUnknown:
		return true
	}
	return false
}

// ValidAction reports whether the value is a member of the action taxonomy.
func ValidAction(v Action) bool {
	switch v {
	case ActionShowRoute, ActionShowLocation, ActionShowMultipleLocations:
		return true
	}
	return false
}
