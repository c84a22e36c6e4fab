// Package registry holds the static wiring of a conversation engine:
// which handlers exist, which actions each handler may request, and
// which of those actions require an explicit caller decision before
// they run.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/concierge/pkg/ports"
)

// ExecContext carries per-session identity into action implementations.
type ExecContext struct {
	SessionID string
	CallerID  string
}

// ActionFunc executes one action call with its raw argument map and
// returns a payload to surface back into the transcript.
type ActionFunc func(ctx context.Context, ec ExecContext, args map[string]any) (any, error)

// ActionSpec describes one executable action. Sensitive marks actions
// that mutate state on behalf of the caller and must pass the approval
// gate before running.
type ActionSpec struct {
	Name      string
	Sensitive bool
	Run       ActionFunc
}

// Catalog is the set of all actions the engine can execute.
type Catalog struct {
	specs map[string]ActionSpec
}

// NewCatalog builds a catalog from the given specs. Duplicate names are
// a programming error and rejected.
func NewCatalog(specs ...ActionSpec) (*Catalog, error) {
	c := &Catalog{specs: make(map[string]ActionSpec, len(specs))}
	for _, s := range specs {
		if s.Name == "" || s.Run == nil {
			return nil, fmt.Errorf("registry: action spec missing name or implementation")
		}
		if _, ok := c.specs[s.Name]; ok {
			return nil, fmt.Errorf("registry: duplicate action %q", s.Name)
		}
		c.specs[s.Name] = s
	}
	return c, nil
}

// Lookup returns the spec for name, if registered.
func (c *Catalog) Lookup(name string) (ActionSpec, bool) {
	s, ok := c.specs[name]
	return s, ok
}

// Names lists registered actions in stable order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.specs))
	for name := range c.specs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Handler is one conversational scope: an agent plus the action names
// it is allowed to request, split by sensitivity.
type Handler struct {
	// Name identifies the handler on the dialog stack.
	Name string
	// Title is the human-readable form used in scope-entry framing.
	Title string
	// Framing is the static scope description handed to the agent on
	// every invocation.
	Framing string
	// Agent produces this handler's turns.
	Agent ports.Agent
	// Safe actions execute immediately; Sensitive actions open the
	// approval gate first.
	Safe      []string
	Sensitive []string
}

// Allowed reports whether the handler may request the named action at all.
func (h Handler) Allowed(name string) bool {
	return contains(h.Safe, name) || contains(h.Sensitive, name)
}

// IsSafe reports whether the named action runs without a decision. An
// action counts as safe only when it is in the handler's safe list.
func (h Handler) IsSafe(name string) bool {
	return contains(h.Safe, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Set is the full handler topology. The primary handler sits at the
// bottom of every dialog stack; the rest are reachable by delegation.
type Set struct {
	primary  string
	handlers map[string]Handler
}

// NewSet validates and indexes the handler topology. The first handler
// is the primary. Every action a handler references must exist in the
// catalog with a matching sensitivity.
func NewSet(catalog *Catalog, primary Handler, others ...Handler) (*Set, error) {
	all := append([]Handler{primary}, others...)
	s := &Set{primary: primary.Name, handlers: make(map[string]Handler, len(all))}
	for _, h := range all {
		if h.Name == "" || h.Agent == nil {
			return nil, fmt.Errorf("registry: handler missing name or agent")
		}
		if _, ok := s.handlers[h.Name]; ok {
			return nil, fmt.Errorf("registry: duplicate handler %q", h.Name)
		}
		for _, name := range h.Safe {
			spec, ok := catalog.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("registry: handler %q references unknown action %q", h.Name, name)
			}
			if spec.Sensitive {
				return nil, fmt.Errorf("registry: handler %q lists sensitive action %q as safe", h.Name, name)
			}
		}
		for _, name := range h.Sensitive {
			spec, ok := catalog.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("registry: handler %q references unknown action %q", h.Name, name)
			}
			if !spec.Sensitive {
				return nil, fmt.Errorf("registry: handler %q lists safe action %q as sensitive", h.Name, name)
			}
		}
		s.handlers[h.Name] = h
	}
	return s, nil
}

// Primary returns the bottom-of-stack handler.
func (s *Set) Primary() Handler { return s.handlers[s.primary] }

// Get returns the named handler, if registered.
func (s *Set) Get(name string) (Handler, bool) {
	h, ok := s.handlers[name]
	return h, ok
}

// Names lists registered handlers in stable order, primary first.
func (s *Set) Names() []string {
	out := []string{s.primary}
	rest := make([]string, 0, len(s.handlers)-1)
	for name := range s.handlers {
		if name != s.primary {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
