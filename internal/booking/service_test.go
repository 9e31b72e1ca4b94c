package booking

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/BDorzho/shareit/internal/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct{}

func (fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	return id != "" && id != "ghost", nil
}

type fakeItems map[string]*item.Item

func (f fakeItems) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := f[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

// memRepo is an in-memory Repository. InItemLock serializes per item with a mutex.
type memRepo struct {
	items fakeItems

	mu       sync.Mutex
	bookings []*Booking
	seq      int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func newMemRepo(items fakeItems) *memRepo {
	return &memRepo{items: items, locks: map[string]*sync.Mutex{}}
}

func (r *memRepo) decorate(b *Booking) *Booking {
	cp := *b
	if it, ok := r.items[b.ItemID]; ok {
		cp.ItemName = it.Name
		cp.ItemOwnerID = it.OwnerID
	}
	cp.BookerName = "name-" + b.BookerID
	return &cp
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = fmt.Sprintf("booking-%02d", r.seq)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return r.decorate(b), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) ListByItem(_ context.Context, itemID string) ([]*Booking, error) {
	r.mu.Lock()
	var out []*Booking
	for _, b := range r.bookings {
		if b.ItemID == itemID {
			out = append(out, r.decorate(b))
		}
	}
	r.mu.Unlock()
	// Widen the gap between the read and a following insert.
	runtime.Gosched()
	return out, nil
}

func (r *memRepo) filter(keep func(*Booking) bool, q ListQuery) ([]*Booking, int) {
	r.mu.Lock()
	var matched []*Booking
	for _, b := range r.bookings {
		d := r.decorate(b)
		if keep(d) {
			matched = append(matched, d)
		}
	}
	r.mu.Unlock()

	ordered := q.Criteria.Apply(matched)
	total := len(ordered)
	if q.Offset >= total {
		return nil, total
	}
	end := total
	if q.Limit > 0 && q.Offset+q.Limit < total {
		end = q.Offset + q.Limit
	}
	return ordered[q.Offset:end], total
}

func (r *memRepo) ListForBooker(_ context.Context, bookerID string, q ListQuery) ([]*Booking, int, error) {
	out, total := r.filter(func(b *Booking) bool { return b.BookerID == bookerID }, q)
	return out, total, nil
}

func (r *memRepo) ListForOwner(_ context.Context, ownerID string, q ListQuery) ([]*Booking, int, error) {
	out, total := r.filter(func(b *Booking) bool { return b.ItemOwnerID == ownerID }, q)
	return out, total, nil
}

func (r *memRepo) HasFinished(_ context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.EndTime.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) InItemLock(_ context.Context, itemID string, fn func(repo Repository) error) error {
	r.locksMu.Lock()
	l, ok := r.locks[itemID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[itemID] = l
	}
	r.locksMu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(r)
}

func newTestService(t *testing.T) (*service, *memRepo) {
	t.Helper()
	items := fakeItems{
		"drill":  {ID: "drill", OwnerID: "owner", Name: "Drill", Available: true},
		"ladder": {ID: "ladder", OwnerID: "owner", Name: "Ladder", Available: true},
		"broken": {ID: "broken", OwnerID: "owner", Name: "Broken", Available: false},
		"saw":    {ID: "saw", OwnerID: "other-owner", Name: "Saw", Available: true},
	}
	repo := newMemRepo(items)
	svc := NewService(repo, fakeUsers{}, items).(*service)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func mustCreate(t *testing.T, svc Service, booker, itemID string, start, end time.Time) *Booking {
	t.Helper()
	b, err := svc.Create(context.Background(), CreateRequest{
		BookerID: booker, ItemID: itemID, StartTime: start, EndTime: end,
	})
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := mustCreate(t, svc, "alice", "drill", day(2), day(3))
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, "Drill", b.ItemName)
	assert.Equal(t, "owner", b.ItemOwnerID)

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"unknown booker", CreateRequest{BookerID: "ghost", ItemID: "drill", StartTime: day(10), EndTime: day(11)}, ErrUserNotFound},
		{"unknown item", CreateRequest{BookerID: "bob", ItemID: "nope", StartTime: day(10), EndTime: day(11)}, ErrItemNotFound},
		{"owner", CreateRequest{BookerID: "owner", ItemID: "drill", StartTime: day(10), EndTime: day(11)}, ErrOwnerSelfBooking},
		{"unavailable", CreateRequest{BookerID: "bob", ItemID: "broken", StartTime: day(10), EndTime: day(11)}, ErrItemUnavailable},
		{"end equals start", CreateRequest{BookerID: "bob", ItemID: "drill", StartTime: day(10), EndTime: day(10)}, ErrInvalidInterval},
		{"overlap", CreateRequest{BookerID: "bob", ItemID: "drill", StartTime: day(2), EndTime: day(3)}, ErrIntervalConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Same window on another item is fine.
	mustCreate(t, svc, "bob", "ladder", day(2), day(3))
}

func TestRejectedBookingFreesInterval(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := mustCreate(t, svc, "alice", "drill", day(2), day(3))
	_, err := svc.Decide(ctx, "owner", b.ID, false)
	require.NoError(t, err)

	mustCreate(t, svc, "bob", "drill", day(2), day(3))
}

func TestDecide(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := mustCreate(t, svc, "alice", "drill", day(2), day(3))

	_, err := svc.Decide(ctx, "alice", b.ID, true)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Decide(ctx, "owner", "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	approved, err := svc.Decide(ctx, "owner", b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = svc.Decide(ctx, "owner", b.ID, true)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	rejected, err := svc.Decide(ctx, "owner", b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	rejected, err = svc.Decide(ctx, "owner", b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	_, err = svc.Decide(ctx, "owner", b.ID, true)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestGetVisibility(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := mustCreate(t, svc, "alice", "drill", day(2), day(3))

	for _, actor := range []string{"alice", "owner"} {
		got, err := svc.Get(ctx, actor, b.ID)
		require.NoError(t, err, actor)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err := svc.Get(ctx, "mallory", b.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.Get(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnerScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := mustCreate(t, svc, "alice", "drill", day(2), day(3))
	_, err := svc.Decide(ctx, "owner", first.ID, true)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRequest{BookerID: "bob", ItemID: "drill", StartTime: day(2), EndTime: day(3)})
	assert.ErrorIs(t, err, ErrIntervalConflict)

	second := mustCreate(t, svc, "bob", "drill", day(5), day(6))

	list, total, err := svc.ListForOwner(ctx, "owner", ListRequest{State: StateAll})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{second.ID, first.ID}, ids(list))
}

func TestListStates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	past := mustCreate(t, svc, "alice", "drill", day(-10), day(-8))
	current := mustCreate(t, svc, "alice", "ladder", day(-1), day(1))
	future := mustCreate(t, svc, "alice", "drill", day(4), day(5))
	otherOwner := mustCreate(t, svc, "alice", "saw", day(-3), day(-2))
	_, err := svc.Decide(ctx, "owner", future.ID, false)
	require.NoError(t, err)

	tests := []struct {
		state State
		want  []string
	}{
		{StateAll, []string{future.ID, current.ID, past.ID}},
		{StatePast, []string{past.ID}},
		{StateCurrent, []string{current.ID}},
		{StateFuture, []string{future.ID}},
		{StateWaiting, []string{current.ID, past.ID}},
		{StateRejected, []string{future.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			got, _, err := svc.ListForOwner(ctx, "owner", ListRequest{State: tt.state})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	mine, total, err := svc.ListForBooker(ctx, "alice", ListRequest{State: StatePast})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{otherOwner.ID, past.ID}, ids(mine))
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var created []string
	for i := 0; i < 5; i++ {
		b := mustCreate(t, svc, "alice", "drill", day(i*2), day(i*2+1))
		created = append(created, b.ID)
	}

	got, total, err := svc.ListForBooker(ctx, "alice", ListRequest{From: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{created[3], created[2]}, ids(got))

	_, _, err = svc.ListForBooker(ctx, "alice", ListRequest{From: -1, Size: 2})
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, _, err = svc.ListForBooker(ctx, "alice", ListRequest{Size: 101})
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, _, err = svc.ListForOwner(ctx, "ghost", ListRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestConcurrentCreateAdmitsOne(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, CreateRequest{
				BookerID:  fmt.Sprintf("booker-%d", i),
				ItemID:    "drill",
				StartTime: day(2).Add(time.Duration(i) * time.Minute),
				EndTime:   day(3),
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrIntervalConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	history, err := repo.ListByItem(ctx, "drill")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestHistoryAndHasFinished(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "alice", "drill", day(-10), day(-8))
	mustCreate(t, svc, "bob", "drill", day(1), day(2))

	history, err := svc.History(ctx, "drill")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	done, err := svc.HasFinished(ctx, "drill", "alice", now)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = svc.HasFinished(ctx, "drill", "bob", now)
	require.NoError(t, err)
	assert.False(t, done)
}
