package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/store"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const interventionColumns = `
	intervention_id::text,
	user_id::text,
	checkin_id::text,
	intervention_type,
	intervention_details,
	user_response,
	created_at,
	updated_at`

// PostgresCrisisInterventionsRepository 使用 PostgreSQL 实现 CrisisInterventionsRepository
type PostgresCrisisInterventionsRepository struct {
	gw *store.Gateway
}

func NewPostgresCrisisInterventionsRepository(gw *store.Gateway) *PostgresCrisisInterventionsRepository {
	return &PostgresCrisisInterventionsRepository{gw: gw}
}

var _ CrisisInterventionsRepository = (*PostgresCrisisInterventionsRepository)(nil)

func (r *PostgresCrisisInterventionsRepository) CreateIntervention(ctx context.Context, iv *domain.CrisisIntervention) error {
	if iv == nil {
		return fmt.Errorf("intervention is required")
	}
	if iv.InterventionID == "" || iv.UserID == "" || iv.CheckinID == "" {
		return fmt.Errorf("intervention_id, user_id and checkin_id are required")
	}

	detailsJSON, err := json.Marshal(iv.InterventionDetails)
	if err != nil {
		return fmt.Errorf("failed to marshal intervention details: %w", err)
	}

	var userResponse any
	if iv.UserResponse != nil {
		userResponse = string(*iv.UserResponse)
	}

	query := `
		INSERT INTO crisis_interventions (
			intervention_id,
			user_id,
			checkin_id,
			intervention_type,
			intervention_details,
			user_response,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.gw.Execute(ctx, query,
		iv.InterventionID,
		iv.UserID,
		iv.CheckinID,
		string(iv.InterventionType),
		string(detailsJSON),
		userResponse,
		iv.CreatedAt,
		iv.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: checkin_id=%s", domain.ErrInterventionExists, iv.CheckinID)
		}
		return fmt.Errorf("failed to create crisis intervention: %w", err)
	}
	return nil
}

func (r *PostgresCrisisInterventionsRepository) GetIntervention(ctx context.Context, userID, interventionID string) (*domain.CrisisIntervention, error) {
	if userID == "" || interventionID == "" {
		return nil, fmt.Errorf("user_id and intervention_id are required")
	}

	query := `SELECT ` + interventionColumns + `
		FROM crisis_interventions
		WHERE intervention_id = $1
		  AND user_id = $2
	`
	iv, err := scanIntervention(r.gw.QueryRow(ctx, query, interventionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: intervention_id=%s", domain.ErrInterventionNotFound, interventionID)
		}
		return nil, fmt.Errorf("failed to get crisis intervention: %w", err)
	}
	return iv, nil
}

func (r *PostgresCrisisInterventionsRepository) GetInterventionByCheckin(ctx context.Context, userID, checkinID string) (*domain.CrisisIntervention, error) {
	if userID == "" || checkinID == "" {
		return nil, fmt.Errorf("user_id and checkin_id are required")
	}

	query := `SELECT ` + interventionColumns + `
		FROM crisis_interventions
		WHERE checkin_id = $1
		  AND user_id = $2
	`
	iv, err := scanIntervention(r.gw.QueryRow(ctx, query, checkinID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: checkin_id=%s", domain.ErrInterventionNotFound, checkinID)
		}
		return nil, fmt.Errorf("failed to get crisis intervention: %w", err)
	}
	return iv, nil
}

func (r *PostgresCrisisInterventionsRepository) UpdateUserResponse(ctx context.Context, interventionID string, from *domain.UserResponse, to domain.UserResponse) error {
	if interventionID == "" {
		return fmt.Errorf("intervention_id is required")
	}

	var current any
	if from != nil {
		current = string(*from)
	}

	query := `
		UPDATE crisis_interventions
		SET user_response = $1,
		    updated_at = NOW()
		WHERE intervention_id = $2
		  AND user_response IS NOT DISTINCT FROM $3
	`
	result, err := r.gw.Execute(ctx, query, string(to), interventionID, current)
	if err != nil {
		return fmt.Errorf("failed to update user response: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: intervention_id=%s", domain.ErrInvalidTransition, interventionID)
	}
	return nil
}

func scanIntervention(row rowScanner) (*domain.CrisisIntervention, error) {
	var iv domain.CrisisIntervention
	var interventionType string
	var details []byte
	var userResponse sql.NullString

	err := row.Scan(
		&iv.InterventionID,
		&iv.UserID,
		&iv.CheckinID,
		&interventionType,
		&details,
		&userResponse,
		&iv.CreatedAt,
		&iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	iv.InterventionType = domain.InterventionType(interventionType)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &iv.InterventionDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal intervention details: %w", err)
		}
	}
	if iv.InterventionDetails.SeverityLevels == nil {
		iv.InterventionDetails.SeverityLevels = []domain.Severity{}
	}
	if userResponse.Valid {
		resp := domain.UserResponse(userResponse.String)
		iv.UserResponse = &resp
	}
	return &iv, nil
}
