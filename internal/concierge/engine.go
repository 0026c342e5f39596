package concierge

import (
	"context"
	"fmt"
	"strings"

	ierr "github.com/campushub/concierge-go/internal/errors"
	"github.com/campushub/concierge-go/internal/kb"
	"github.com/campushub/concierge-go/internal/logger"
	"github.com/campushub/concierge-go/internal/metrics"
	"github.com/campushub/concierge-go/internal/stringutil"
)

// securityAlias resolves the designated escalation contact from the
// knowledge base.
const securityAlias = "security"

// Resolver answers queries the deterministic pipeline could not.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*Response, error)
	IsEnabled() bool
}

// Options controls per-request resolution behavior.
type Options struct {
	// AllowLLM permits the generative fallback for this request. The
	// deterministic pipeline always runs first regardless.
	AllowLLM bool
}

// Engine resolves campus queries.
type Engine struct {
	base     *kb.KnowledgeBase
	resolver Resolver
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewEngine creates a query resolution engine. The resolver and metrics may
// be nil; the engine then answers deterministically only.
func NewEngine(base *kb.KnowledgeBase, resolver Resolver, m *metrics.Metrics, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.New("info")
	}
	return &Engine{
		base:     base,
		resolver: resolver,
		metrics:  m,
		log:      log.WithModule("concierge"),
	}
}

// Resolve answers a single query. A blank query is an error; everything
// else produces a normalized response or a fallback provider error.
func (e *Engine) Resolve(ctx context.Context, query string, opts Options) (*Response, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, ierr.ErrEmptyQuery
	}

	qualified := FilterQualified(Match(e.base, trimmed))
	cls := Classify(trimmed, qualified)

	if cls.Confidence == ConfidenceHigh {
		e.record("deterministic", "ok")
		return Normalize(e.respond(trimmed, cls, qualified)), nil
	}

	if opts.AllowLLM && e.resolver != nil && e.resolver.IsEnabled() {
		resp, err := e.resolver.Resolve(ctx, trimmed)
		if err != nil {
			if ierr.IsFallbackMalformed(err) {
				// A model that cannot follow the schema degrades to an
				// honest "I don't know", never to an error for the caller.
				e.log.WithError(err).Warn("fallback returned malformed payload")
				e.record("fallback", "malformed")
				return Normalize(e.unknownResponse()), nil
			}
			e.record("fallback", "error")
			return nil, fmt.Errorf("fallback resolve: %w", err)
		}
		e.record("fallback", "ok")
		return Normalize(resp), nil
	}

	e.record("deterministic", "unknown")
	return Normalize(e.unknownResponse()), nil
}

func (e *Engine) record(path, status string) {
	if e.metrics != nil {
		e.metrics.RecordResolve(path, status)
	}
}

// respond builds the deterministic answer for a classified query.
func (e *Engine) respond(query string, cls Classification, qualified []MatchCandidate) *Response {
	locations := e.resolveLocations(query, qualified)

	if cls.Intent == IntentEscalation && len(locations) == 0 {
		if sec, ok := e.base.FindByAlias(securityAlias); ok {
			locations = []Location{toResponseLocation(sec)}
		}
	}

	return &Response{
		Intent:    cls.Intent,
		Action:    cls.Action,
		Message:   e.buildMessage(query, cls, qualified, locations),
		Locations: locations,
		Source:    SourceDeterministic,
	}
}

func (e *Engine) resolveLocations(query string, qualified []MatchCandidate) []Location {
	locations := make([]Location, 0, len(qualified))
	for _, c := range qualified {
		loc, ok := e.base.Get(c.LocationID)
		if !ok {
			continue
		}
		resolved := toResponseLocation(loc)
		if svc := matchedService(query, loc); svc != nil {
			resolved.ServiceName = svc.Name
			resolved.ServiceLocation = svc.LocationNote
		}
		locations = append(locations, resolved)
	}
	return locations
}

func toResponseLocation(loc *kb.Location) Location {
	return Location{
		BuildingID:  loc.ID,
		Name:        loc.Name,
		Coordinates: loc.Coordinates,
	}
}

func (e *Engine) buildMessage(query string, cls Classification, qualified []MatchCandidate, locations []Location) string {
	switch cls.Intent {
	case IntentEscalation:
		if len(locations) > 0 {
			return fmt.Sprintf("Please reach out in person right away. The %s is marked on the map below, and campus security can be reached at any hour.", locations[0].Name)
		}
		return "Please contact campus security right away."

	case IntentRouteNavigation:
		if len(locations) >= 2 {
			return fmt.Sprintf("Here is the route from %s to %s.", locations[0].Name, locations[1].Name)
		}
		if len(locations) == 1 {
			return fmt.Sprintf("Here is the route to %s from where you are.", locations[0].Name)
		}
		return "I could not work out which places you want a route between."
	}

	if len(locations) >= 2 {
		names := make([]string, len(locations))
		for i, loc := range locations {
			names[i] = loc.Name
		}
		return fmt.Sprintf("A few places match your question: %s. All of them are marked on the map below.", strings.Join(names, ", "))
	}

	if len(qualified) == 0 || len(locations) == 0 {
		return defaultUnknownMessage
	}

	loc, _ := e.base.Get(qualified[0].LocationID)
	if svc := matchedService(query, loc); svc != nil {
		msg := fmt.Sprintf("The %s is in the %s", svc.Name, loc.Name)
		if svc.LocationNote != "" {
			msg += ", " + svc.LocationNote
		}
		msg += "."
		if svc.Purpose != "" {
			msg += fmt.Sprintf(" It handles %s.", svc.Purpose)
		}
		return msg
	}
	return fmt.Sprintf("The %s is marked on the map below. %s", loc.Name, loc.Description)
}

// matchedService finds the service the query names explicitly, if any.
func matchedService(query string, loc *kb.Location) *kb.Service {
	normQuery := stringutil.Normalize(query)
	for i := range loc.Services {
		if stringutil.ContainsPhrase(normQuery, stringutil.Normalize(loc.Services[i].Name)) {
			return &loc.Services[i]
		}
	}
	return nil
}

func (e *Engine) unknownResponse() *Response {
	return &Response{
		Intent:    IntentUnknown,
		Action:    ActionShowLocation,
		Message:   defaultUnknownMessage,
		Locations: []Location{},
		Source:    SourceDeterministic,
	}
}
