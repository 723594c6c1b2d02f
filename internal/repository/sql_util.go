package repository

import (
	"database/sql"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"
)

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilThoughts(t []domain.ConcerningThought) []domain.ConcerningThought {
	if t == nil {
		return []domain.ConcerningThought{}
	}
	return t
}
