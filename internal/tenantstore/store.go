package tenantstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Contact is the slice of the advisor application's agent record used to
// prefill provisioning prompts.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	BrandName string
}

// Store reads tenant contact records from the main advisor application's
// own database. Provisioning never writes to it.
type Store struct {
	connString string
}

func New(connString string) *Store {
	return &Store{connString: connString}
}

// Enabled reports whether a connection string was configured; the prompt
// prefill is skipped entirely when it was not.
func (s *Store) Enabled() bool {
	return s != nil && strings.TrimSpace(s.connString) != ""
}

// FindByEmail returns the agent contact record for an email, or nil when
// no record exists.
func (s *Store) FindByEmail(ctx context.Context, email string) (*Contact, error) {
	conn, err := pgx.Connect(ctx, s.connString)
	if err != nil {
		return nil, fmt.Errorf("connect to app database: %w", err)
	}
	defer conn.Close(ctx)

	const query = `
		SELECT email, first_name, last_name, COALESCE(phone, ''), COALESCE(brand_name, '')
		FROM agents
		WHERE lower(email) = lower($1)
		LIMIT 1`

	var c Contact
	err = conn.QueryRow(ctx, query, email).Scan(&c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.BrandName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query agent contact: %w", err)
	}
	return &c, nil
}
