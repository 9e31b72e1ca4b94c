package booking

import (
	"slices"
	"strings"
	"time"

	"github.com/BDorzho/shareit/internal/pkg/apperror"
)

// State is a query-time filter over bookings. It is never persisted.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState matches s case-insensitively against the state names.
// An empty string means ALL.
func ParseState(s string) (State, error) {
	if strings.TrimSpace(s) == "" {
		return StateAll, nil
	}
	for _, st := range states {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", apperror.Wrap(ErrInvalidState, apperror.KindInvalidInput, "Unknown state: "+s)
}

// Criteria is the predicate and ordering a State resolves to at a given instant.
// Nil fields impose no restriction.
type Criteria struct {
	EndBefore  *time.Time // end < t
	StartAfter *time.Time // start > t
	ActiveAt   *time.Time // start <= t <= end
	Status     *Status
	Ascending  bool // order by start ascending instead of descending
}

// Criteria resolves the state against now.
func (s State) Criteria(now time.Time) Criteria {
	switch s {
	case StatePast:
		return Criteria{EndBefore: &now}
	case StateFuture:
		return Criteria{StartAfter: &now}
	case StateCurrent:
		return Criteria{ActiveAt: &now, Ascending: true}
	case StateWaiting:
		st := StatusWaiting
		return Criteria{Status: &st}
	case StateRejected:
		st := StatusRejected
		return Criteria{Status: &st}
	default:
		return Criteria{}
	}
}

// Match reports whether b satisfies the criteria.
func (c Criteria) Match(b *Booking) bool {
	if c.EndBefore != nil && !b.EndTime.Before(*c.EndBefore) {
		return false
	}
	if c.StartAfter != nil && !b.StartTime.After(*c.StartAfter) {
		return false
	}
	if c.ActiveAt != nil && (b.StartTime.After(*c.ActiveAt) || b.EndTime.Before(*c.ActiveAt)) {
		return false
	}
	if c.Status != nil && b.Status != *c.Status {
		return false
	}
	return true
}

// Apply filters and orders bookings in memory, the same way the store does in SQL.
// Ties on start time are broken by id.
func (c Criteria) Apply(bookings []*Booking) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if c.Match(b) {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b *Booking) int {
		cmp := a.StartTime.Compare(b.StartTime)
		if !c.Ascending {
			cmp = -cmp
		}
		if cmp == 0 {
			cmp = strings.Compare(a.ID, b.ID)
		}
		return cmp
	})
	return out
}
