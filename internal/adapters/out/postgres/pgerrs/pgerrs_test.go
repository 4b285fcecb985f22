package pgerrs_test

import (
	"errors"
	"fmt"
	"testing"

	"bagpub/internal/adapters/out/postgres/pgerrs"
	"bagpub/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"pgx unique", &pgconn.PgError{Code: "23505"}, true},
		{"pgx wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"pq unique", &pq.Error{Code: "23505"}, true},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgerrs.IsUniqueViolation(tt.err))
		})
	}
}

func TestCollision(t *testing.T) {
	t.Run("names the constraint", func(t *testing.T) {
		err := pgerrs.Collision(&pgconn.PgError{Code: "23505", ConstraintName: "idx_campaigns_order_number"})

		assert.ErrorIs(t, err, errs.ErrIdentifierCollision)
		assert.Contains(t, err.Error(), "idx_campaigns_order_number")
	})

	t.Run("passes other errors through", func(t *testing.T) {
		boom := errors.New("connection reset")

		assert.Same(t, boom, pgerrs.Collision(boom))
		assert.NoError(t, pgerrs.Collision(nil))
	})
}
