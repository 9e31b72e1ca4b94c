package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BDorzho/shareit/internal/db"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListQuery selects one page of an actor's bookings.
type ListQuery struct {
	Criteria Criteria
	Offset   int
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListByItem returns every booking of the item regardless of status, ordered by start.
	ListByItem(ctx context.Context, itemID string) ([]*Booking, error)
	ListForBooker(ctx context.Context, bookerID string, q ListQuery) ([]*Booking, int, error)
	ListForOwner(ctx context.Context, ownerID string, q ListQuery) ([]*Booking, int, error)

	// HasFinished reports whether the booker has a booking on the item that ended before now.
	HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error)

	// InItemLock runs fn with a repository bound to a transaction that is serialized
	// against every other InItemLock call for the same item.
	InItemLock(ctx context.Context, itemID string, fn func(repo Repository) error) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
	q    db.Querier
	inTx bool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, q: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBookings(extra ...string) squirrel.SelectBuilder {
	cols := []string{
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
	}
	return psql.Select(append(cols, extra...)...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.StartTime, b.EndTime, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ExclusionViolation:
				return ErrIntervalConflict
			case pgerrcode.CheckViolation:
				return ErrInvalidInterval
			case pgerrcode.ForeignKeyViolation:
				if pgErr.ConstraintName == "bookings_booker_id_fkey" {
					return ErrUserNotFound
				}
				return ErrItemNotFound
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrIntervalConflict
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByItem(ctx context.Context, itemID string) ([]*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		OrderBy("b.start_time", "b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) ListForBooker(ctx context.Context, bookerID string, q ListQuery) ([]*Booking, int, error) {
	return r.list(ctx, squirrel.Eq{"b.booker_id": bookerID}, q)
}

func (r *pgxRepository) ListForOwner(ctx context.Context, ownerID string, q ListQuery) ([]*Booking, int, error) {
	return r.list(ctx, squirrel.Eq{"i.owner_id": ownerID}, q)
}

// applyCriteria translates classified criteria into SQL predicates and ordering.
func applyCriteria(query squirrel.SelectBuilder, c Criteria) squirrel.SelectBuilder {
	if c.EndBefore != nil {
		query = query.Where(squirrel.Lt{"b.end_time": *c.EndBefore})
	}
	if c.StartAfter != nil {
		query = query.Where(squirrel.Gt{"b.start_time": *c.StartAfter})
	}
	if c.ActiveAt != nil {
		query = query.Where(squirrel.LtOrEq{"b.start_time": *c.ActiveAt}).
			Where(squirrel.GtOrEq{"b.end_time": *c.ActiveAt})
	}
	if c.Status != nil {
		query = query.Where(squirrel.Eq{"b.status": string(*c.Status)})
	}

	if c.Ascending {
		return query.OrderBy("b.start_time ASC", "b.id ASC")
	}
	return query.OrderBy("b.start_time DESC", "b.id DESC")
}

func (r *pgxRepository) list(ctx context.Context, actor squirrel.Sqlizer, q ListQuery) ([]*Booking, int, error) {
	query := applyCriteria(selectBookings("count(*) OVER() AS total_count").Where(actor), q.Criteria)
	if q.Limit > 0 {
		query = query.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		query = query.Offset(uint64(q.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	return bookings, total, nil
}

func (r *pgxRepository) HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID, "booker_id": bookerID}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) InItemLock(ctx context.Context, itemID string, fn func(repo Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	return db.WithKeyLock(ctx, r.pool, "item:"+itemID, func(tx pgx.Tx) error {
		return fn(&pgxRepository{pool: r.pool, q: tx, inTx: true})
	})
}
