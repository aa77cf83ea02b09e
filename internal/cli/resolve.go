package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/service"
)

// resolvePlan turns a plan reference into an open request. It accepts a
// YYYY-MM-DD day, today/tomorrow/yesterday, or a stored planning id.
func resolvePlan(ref string, today time.Time) (service.OpenRequest, error) {
	ref = strings.TrimSpace(ref)
	switch strings.ToLower(ref) {
	case "":
		return service.OpenRequest{}, fmt.Errorf("a day or planning id is required")
	case "today":
		return service.OpenRequest{Day: today}, nil
	case "tomorrow":
		return service.OpenRequest{Day: today.AddDate(0, 0, 1)}, nil
	case "yesterday":
		return service.OpenRequest{Day: today.AddDate(0, 0, -1)}, nil
	}
	if day, err := domain.ParseDay(ref); err == nil {
		return service.OpenRequest{Day: day}, nil
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return service.OpenRequest{}, fmt.Errorf("invalid planning reference %q (use YYYY-MM-DD or an id)", ref)
	}
	return service.OpenRequest{HeaderID: id}, nil
}

// resolveHeaderID returns the stored id of the referenced plan.
func resolveHeaderID(ctx context.Context, app *App, ref string) (int64, error) {
	req, err := resolvePlan(ref, app.today())
	if err != nil {
		return 0, err
	}
	if req.HeaderID != 0 {
		return req.HeaderID, nil
	}
	plans, err := app.Planning.List(ctx, req.Day, req.Day)
	if err != nil {
		return 0, err
	}
	if len(plans) == 0 {
		return 0, fmt.Errorf("planning for %s: %w", req.Day.Format(domain.DayLayout), domain.ErrNotFound)
	}
	return plans[0].ID, nil
}

// resolveRow maps a 1-based row number, as printed by `plan show`, to the
// session key of that row.
func resolveRow(sess *service.Session, ref string) (string, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(ref), "#"))
	if err != nil {
		return "", fmt.Errorf("invalid row number %q", ref)
	}
	rows := sess.Rows()
	if n < 1 || n > len(rows) {
		return "", fmt.Errorf("row %d: %w (planning has %d rows)", n, domain.ErrNotFound, len(rows))
	}
	return rows[n-1].Key, nil
}

// monthRange returns the first and last day of a YYYY-MM month.
func monthRange(month string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q (use YYYY-MM): %w", month, err)
	}
	return first, first.AddDate(0, 1, -1), nil
}

// periodFlags resolves --month or --from/--to, defaulting to the current
// month.
func periodFlags(month, from, to string, today time.Time) (time.Time, time.Time, error) {
	if from != "" || to != "" {
		if month != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("use either --month or --from/--to")
		}
		f, err := domain.ParseDay(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		t, err := domain.ParseDay(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		return f, t, nil
	}
	if month == "" {
		month = today.Format("2006-01")
	}
	return monthRange(month)
}
