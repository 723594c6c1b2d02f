package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/store"

	"github.com/lib/pq"
)

const checkinColumns = `
	checkin_id::text,
	user_id::text,
	record_date::text,
	to_char(record_time, 'HH24:MI:SS'),
	selected_struggles,
	selected_positive_moments,
	selected_concerning_thoughts,
	grateful_for,
	proud_of_today,
	tomorrow_goal,
	additional_notes,
	crisis_alert_triggered,
	entered_via_voice,
	created_at,
	updated_at`

// PostgresEmotionCheckinsRepository 使用 PostgreSQL 实现 EmotionCheckinsRepository
type PostgresEmotionCheckinsRepository struct {
	gw *store.Gateway
}

func NewPostgresEmotionCheckinsRepository(gw *store.Gateway) *PostgresEmotionCheckinsRepository {
	return &PostgresEmotionCheckinsRepository{gw: gw}
}

var _ EmotionCheckinsRepository = (*PostgresEmotionCheckinsRepository)(nil)

func (r *PostgresEmotionCheckinsRepository) CreateCheckin(ctx context.Context, checkin *domain.EmotionCheckin) error {
	if checkin == nil {
		return fmt.Errorf("checkin is required")
	}
	if checkin.CheckinID == "" || checkin.UserID == "" {
		return fmt.Errorf("checkin_id and user_id are required")
	}

	thoughtsJSON, err := json.Marshal(nonNilThoughts(checkin.SelectedConcerningThoughts))
	if err != nil {
		return fmt.Errorf("failed to marshal concerning thoughts: %w", err)
	}

	query := `
		INSERT INTO emotion_checkins (
			checkin_id,
			user_id,
			record_date,
			record_time,
			selected_struggles,
			selected_positive_moments,
			selected_concerning_thoughts,
			grateful_for,
			proud_of_today,
			tomorrow_goal,
			additional_notes,
			crisis_alert_triggered,
			entered_via_voice,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.gw.Execute(ctx, query,
		checkin.CheckinID,
		checkin.UserID,
		checkin.RecordDate,
		checkin.RecordTime,
		pq.Array(nonNilStrings(checkin.SelectedStruggles)),
		pq.Array(nonNilStrings(checkin.SelectedPositiveMoments)),
		string(thoughtsJSON),
		checkin.GratefulFor,
		checkin.ProudOfToday,
		checkin.TomorrowGoal,
		checkin.AdditionalNotes,
		checkin.CrisisAlertTriggered,
		checkin.EnteredViaVoice,
		checkin.CreatedAt,
		checkin.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create emotion checkin: %w", err)
	}
	return nil
}

func (r *PostgresEmotionCheckinsRepository) GetCheckin(ctx context.Context, userID, checkinID string) (*domain.EmotionCheckin, error) {
	if userID == "" || checkinID == "" {
		return nil, fmt.Errorf("user_id and checkin_id are required")
	}

	query := `SELECT ` + checkinColumns + `
		FROM emotion_checkins
		WHERE checkin_id = $1
		  AND user_id = $2
	`

	checkin, err := scanCheckin(r.gw.QueryRow(ctx, query, checkinID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: checkin_id=%s", domain.ErrCheckinNotFound, checkinID)
		}
		return nil, fmt.Errorf("failed to get emotion checkin: %w", err)
	}
	return checkin, nil
}

func (r *PostgresEmotionCheckinsRepository) ListCheckins(ctx context.Context, userID string, filters CheckinFilters, page, size int) ([]*domain.EmotionCheckin, int, error) {
	if userID == "" {
		return nil, 0, fmt.Errorf("user_id is required")
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	where := []string{"user_id = $1"}
	args := []any{userID}
	argN := 2

	if filters.StartDate != nil {
		where = append(where, fmt.Sprintf("record_date >= $%d", argN))
		args = append(args, *filters.StartDate)
		argN++
	}
	if filters.EndDate != nil {
		where = append(where, fmt.Sprintf("record_date <= $%d", argN))
		args = append(args, *filters.EndDate)
		argN++
	}
	if filters.CrisisOnly {
		where = append(where, "crisis_alert_triggered = true")
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM emotion_checkins WHERE ` + whereClause
	if err := r.gw.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count emotion checkins: %w", err)
	}
	if total == 0 {
		return []*domain.EmotionCheckin{}, 0, nil
	}

	query := `SELECT ` + checkinColumns + `
		FROM emotion_checkins
		WHERE ` + whereClause + fmt.Sprintf(`
		ORDER BY record_date DESC, record_time DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, (page-1)*size)

	rows, err := r.gw.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list emotion checkins: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.EmotionCheckin, 0, size)
	for rows.Next() {
		checkin, err := scanCheckin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan emotion checkin: %w", err)
		}
		items = append(items, checkin)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate emotion checkins: %w", err)
	}

	return items, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCheckin 将存储格式（TEXT[] / JSONB）还原为内存中的列表
func scanCheckin(row rowScanner) (*domain.EmotionCheckin, error) {
	var c domain.EmotionCheckin
	var struggles, moments pq.StringArray
	var thoughts []byte
	var grateful, proud, goal, notes sql.NullString

	err := row.Scan(
		&c.CheckinID,
		&c.UserID,
		&c.RecordDate,
		&c.RecordTime,
		&struggles,
		&moments,
		&thoughts,
		&grateful,
		&proud,
		&goal,
		&notes,
		&c.CrisisAlertTriggered,
		&c.EnteredViaVoice,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.SelectedStruggles = nonNilStrings(struggles)
	c.SelectedPositiveMoments = nonNilStrings(moments)
	c.SelectedConcerningThoughts = []domain.ConcerningThought{}
	if len(thoughts) > 0 {
		if err := json.Unmarshal(thoughts, &c.SelectedConcerningThoughts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal concerning thoughts: %w", err)
		}
		c.SelectedConcerningThoughts = nonNilThoughts(c.SelectedConcerningThoughts)
	}
	c.GratefulFor = nullStringPtr(grateful)
	c.ProudOfToday = nullStringPtr(proud)
	c.TomorrowGoal = nullStringPtr(goal)
	c.AdditionalNotes = nullStringPtr(notes)

	return &c, nil
}
