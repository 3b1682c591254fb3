package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.user_id, a.date,
	a.check_in_time, a.check_in_latitude, a.check_in_longitude,
	a.check_out_time, a.check_out_latitude, a.check_out_longitude,
	a.status, a.created_at, a.updated_at`

// attendanceRow holds nullable coordinate columns until they are folded into
// geo.Coordinate values.
type attendanceRow struct {
	att                      attendance.Attendance
	checkInLat, checkInLng   *float64
	checkOutLat, checkOutLng *float64
}

func (r *attendanceRow) dest() []interface{} {
	return []interface{}{
		&r.att.ID, &r.att.UserID, &r.att.Date,
		&r.att.CheckInTime, &r.checkInLat, &r.checkInLng,
		&r.att.CheckOutTime, &r.checkOutLat, &r.checkOutLng,
		&r.att.Status, &r.att.CreatedAt, &r.att.UpdatedAt,
	}
}

func (r *attendanceRow) withUser() []interface{} {
	return append(r.dest(), &r.att.UserName, &r.att.UserEmail, &r.att.UserNIM)
}

func (r *attendanceRow) toAttendance() attendance.Attendance {
	att := r.att
	att.CheckInLocation = toCoordinate(r.checkInLat, r.checkInLng)
	att.CheckOutLocation = toCoordinate(r.checkOutLat, r.checkOutLng)
	return att
}

func toCoordinate(lat, lng *float64) *geo.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *lat, Longitude: *lng}
}

func coordinateArgs(c *geo.Coordinate) (lat, lng *float64) {
	if c == nil {
		return nil, nil
	}
	return &c.Latitude, &c.Longitude
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1 AND a.date = $2
		LIMIT 1
	`

	var row attendanceRow
	err := q.QueryRow(ctx, query, userID, date).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	att := row.toAttendance()
	return &att, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if att.CheckOutTime != nil {
		return a.writeCheckOut(ctx, att)
	}
	return a.writeCheckIn(ctx, att)
}

// writeCheckIn inserts the day's record. A concurrent check-in that already
// filled check_in_time leaves the row untouched and yields no row.
func (a *attendanceRepository) writeCheckIn(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if att.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		att.ID = id.String()
	}

	lat, lng := coordinateArgs(att.CheckInLocation)

	query := `
		INSERT INTO attendances AS a (
			id, user_id, date, check_in_time, check_in_latitude, check_in_longitude, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
			check_in_latitude = EXCLUDED.check_in_latitude,
			check_in_longitude = EXCLUDED.check_in_longitude,
			status = EXCLUDED.status,
			updated_at = NOW()
		WHERE a.check_in_time IS NULL
		RETURNING ` + attendanceColumns

	var row attendanceRow
	err := q.QueryRow(ctx, query,
		att.ID, att.UserID, att.Date, att.CheckInTime, lat, lng, att.Status,
	).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to write check-in: %w", err)
	}

	return row.toAttendance(), nil
}

func (a *attendanceRepository) writeCheckOut(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	lat, lng := coordinateArgs(att.CheckOutLocation)

	query := `
		UPDATE attendances AS a
		SET check_out_time = $1,
			check_out_latitude = $2,
			check_out_longitude = $3,
			updated_at = NOW()
		WHERE a.user_id = $4 AND a.date = $5
		  AND a.check_in_time IS NOT NULL
		  AND a.check_out_time IS NULL
		RETURNING ` + attendanceColumns

	var row attendanceRow
	err := q.QueryRow(ctx, query,
		att.CheckOutTime, lat, lng, att.UserID, att.Date,
	).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to write check-out: %w", err)
	}

	return row.toAttendance(), nil
}

// whereBuilder accumulates numbered placeholders for dynamic filters.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return "TRUE"
	}
	return strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) dateRange(from, to *time.Time) {
	if from != nil {
		w.add("a.date >= $%d", *from)
	}
	if to != nil {
		w.add("a.date <= $%d", *to)
	}
}

func (w *whereBuilder) status(status *string) {
	if status != nil && *status != "" {
		w.add("a.status = $%d", *status)
	}
}

func orderBy(sortBy, sortOrder string) string {
	field := "a.date"
	switch sortBy {
	case "user_name":
		field = "u.name"
	case "check_in_time":
		field = "a.check_in_time"
	case "check_out_time":
		field = "a.check_out_time"
	case "status":
		field = "a.status"
	}
	order := "DESC"
	if strings.ToLower(sortOrder) == "asc" {
		order = "ASC"
	}
	return fmt.Sprintf("%s %s, a.id %s", field, order, order)
}

func (a *attendanceRepository) queryPage(ctx context.Context, where *whereBuilder, sortBy, sortOrder string, page, limit int) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE ` + where.String()
	var total int64
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	args := append(where.args, limit, (page-1)*limit)

	selectQuery := fmt.Sprintf(`
		SELECT %s, u.name, u.email, u.nim
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where.String(), orderBy(sortBy, sortOrder), len(where.args)+1, len(where.args)+2)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := make([]attendance.Attendance, 0)
	for rows.Next() {
		var row attendanceRow
		if err := rows.Scan(row.withUser()...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, row.toAttendance())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	where := &whereBuilder{}
	where.add("a.user_id = $%d", userID)
	where.dateRange(filter.DateRange())
	where.status(filter.Status)

	return a.queryPage(ctx, where, filter.SortBy, filter.SortOrder, filter.Page, filter.Limit)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	where := &whereBuilder{}
	if filter.UserID != nil && *filter.UserID != "" {
		where.add("a.user_id = $%d", *filter.UserID)
	}
	where.dateRange(filter.DateRange())
	where.status(filter.Status)

	return a.queryPage(ctx, where, filter.SortBy, filter.SortOrder, filter.Page, filter.Limit)
}

// ListAllByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListAllByUser(ctx context.Context, userID string, from, to *time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	where := &whereBuilder{}
	where.add("a.user_id = $%d", userID)
	where.dateRange(from, to)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE ` + where.String() + `
		ORDER BY a.date DESC
	`

	rows, err := q.Query(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var row attendanceRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, row.toAttendance())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
