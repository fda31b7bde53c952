package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardTotals aggregates a user's headline numbers.
type DashboardTotals struct {
	TotalLinks  int64
	TotalClicks int64
	TotalViews  int64
}

// RecentClick is one row of the recent-activity feed.
type RecentClick struct {
	ID         string
	LinkTitle  string
	ShortCode  string
	ClickedAt  time.Time
	DeviceType string
	Browser    string
	OS         string
	Country    *string
	Referrer   *string
}

// DailyClicks is the click total for one calendar day.
type DailyClicks struct {
	Date   time.Time
	Clicks int64
}

// TopLink is a link ranked by click count.
type TopLink struct {
	ID             string
	Title          string
	ShortCode      string
	DestinationURL string
	ClickCount     int64
}

// BreakdownRow is one bucket of a grouped count (device type, browser).
type BreakdownRow struct {
	Label string
	Count int64
}

// AnalyticsRepository runs the dashboard aggregation queries. These are plain
// SQL over the pgx pool rather than GORM: every query is a grouped aggregate
// over the click log and the ORM adds nothing here.
type AnalyticsRepository interface {
	Totals(ctx context.Context, userID string) (*DashboardTotals, error)
	RecentClicks(ctx context.Context, userID string, limit int) ([]RecentClick, error)
	ClicksPerDay(ctx context.Context, userID string, since time.Time) ([]DailyClicks, error)
	TopLinks(ctx context.Context, userID string, limit int) ([]TopLink, error)
	DeviceBreakdown(ctx context.Context, userID string) ([]BreakdownRow, error)
	BrowserBreakdown(ctx context.Context, userID string, limit int) ([]BreakdownRow, error)
	// ReconcileClickCounts rewrites links.click_count from the click log and
	// returns how many rows were corrected. Increments on the hot path are
	// fire-and-forget, so counts can drift under concurrent load.
	ReconcileClickCounts(ctx context.Context) (int64, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository returns a pgx-backed AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) Totals(ctx context.Context, userID string) (*DashboardTotals, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM links WHERE user_id = $1),
			(SELECT COUNT(*) FROM link_clicks
				WHERE link_id IN (SELECT id FROM links WHERE user_id = $1)),
			(SELECT COALESCE(SUM(view_count), 0) FROM landing_pages WHERE user_id = $1)`

	var totals DashboardTotals
	err := r.pool.QueryRow(ctx, q, userID).
		Scan(&totals.TotalLinks, &totals.TotalClicks, &totals.TotalViews)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *analyticsRepository) RecentClicks(ctx context.Context, userID string, limit int) ([]RecentClick, error) {
	const q = `
		SELECT c.id, l.title, l.short_code, c.clicked_at,
			c.device_type, c.browser, c.os, c.country, c.referrer
		FROM link_clicks c
		JOIN links l ON l.id = c.link_id
		WHERE l.user_id = $1
		ORDER BY c.clicked_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RecentClick
	for rows.Next() {
		var rc RecentClick
		if err := rows.Scan(&rc.ID, &rc.LinkTitle, &rc.ShortCode, &rc.ClickedAt,
			&rc.DeviceType, &rc.Browser, &rc.OS, &rc.Country, &rc.Referrer); err != nil {
			return nil, err
		}
		result = append(result, rc)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) ClicksPerDay(ctx context.Context, userID string, since time.Time) ([]DailyClicks, error) {
	const q = `
		SELECT DATE(c.clicked_at) AS day, COUNT(*)
		FROM link_clicks c
		WHERE c.link_id IN (SELECT id FROM links WHERE user_id = $1)
			AND c.clicked_at >= $2
		GROUP BY day
		ORDER BY day ASC`

	rows, err := r.pool.Query(ctx, q, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DailyClicks
	for rows.Next() {
		var d DailyClicks
		if err := rows.Scan(&d.Date, &d.Clicks); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) TopLinks(ctx context.Context, userID string, limit int) ([]TopLink, error) {
	const q = `
		SELECT id, title, short_code, destination_url, click_count
		FROM links
		WHERE user_id = $1
		ORDER BY click_count DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TopLink
	for rows.Next() {
		var tl TopLink
		if err := rows.Scan(&tl.ID, &tl.Title, &tl.ShortCode, &tl.DestinationURL, &tl.ClickCount); err != nil {
			return nil, err
		}
		result = append(result, tl)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) DeviceBreakdown(ctx context.Context, userID string) ([]BreakdownRow, error) {
	const q = `
		SELECT c.device_type, COUNT(*)
		FROM link_clicks c
		WHERE c.link_id IN (SELECT id FROM links WHERE user_id = $1)
			AND c.device_type <> ''
		GROUP BY c.device_type`

	return r.breakdown(ctx, q, userID, 0)
}

func (r *analyticsRepository) BrowserBreakdown(ctx context.Context, userID string, limit int) ([]BreakdownRow, error) {
	const q = `
		SELECT c.browser, COUNT(*) AS n
		FROM link_clicks c
		WHERE c.link_id IN (SELECT id FROM links WHERE user_id = $1)
			AND c.browser <> ''
		GROUP BY c.browser
		ORDER BY n DESC
		LIMIT $2`

	return r.breakdown(ctx, q, userID, limit)
}

func (r *analyticsRepository) ReconcileClickCounts(ctx context.Context) (int64, error) {
	const q = `
		UPDATE links l
		SET click_count = c.n
		FROM (SELECT link_id, COUNT(*) AS n FROM link_clicks GROUP BY link_id) c
		WHERE l.id = c.link_id AND l.click_count <> c.n`

	tag, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *analyticsRepository) breakdown(ctx context.Context, q, userID string, limit int) ([]BreakdownRow, error) {
	args := []interface{}{userID}
	if limit > 0 {
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BreakdownRow
	for rows.Next() {
		var b BreakdownRow
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
