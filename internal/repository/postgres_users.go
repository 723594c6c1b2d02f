package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
	"github.com/NariCare/NariCare-App-sub000/internal/store"
)

type PostgresUsersRepository struct {
	gw *store.Gateway
}

func NewPostgresUsersRepository(gw *store.Gateway) *PostgresUsersRepository {
	return &PostgresUsersRepository{gw: gw}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

func (r *PostgresUsersRepository) GetUserContact(ctx context.Context, userID string) (*domain.UserContact, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `
		SELECT user_id::text, email, first_name
		FROM users
		WHERE user_id = $1
		  AND status <> 'deleted'
	`

	var contact domain.UserContact
	var firstName sql.NullString
	err := r.gw.QueryRow(ctx, query, userID).Scan(&contact.UserID, &contact.Email, &firstName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user_id=%s", domain.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user contact: %w", err)
	}
	contact.FirstName = firstName.String
	return &contact, nil
}
