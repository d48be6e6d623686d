package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/store"
)

type sessionsRepo struct {
	db *sql.DB
}

var _ store.Sessions = (*sessionsRepo)(nil)

const insertSessionSQL = `
INSERT INTO sessions (
	id, customer_id, anonymous_id, cart_id, cart_version,
	payment_token, token_type, amount, currency,
	billing, shipping, setup,
	status, created_at, expires_at, expires_epoch, used_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectSessionSQL = `
SELECT
	id, customer_id, anonymous_id, cart_id, cart_version,
	payment_token, token_type, amount, currency,
	billing, shipping, setup,
	status, created_at, expires_at, used_at
FROM sessions WHERE id = ?`

func (r *sessionsRepo) CreateSession(ctx context.Context, session domain.AuthenticationSession) error {
	billing, err := json.Marshal(session.Billing)
	if err != nil {
		return fmt.Errorf("sqlite: encode billing: %w", err)
	}
	shipping, err := marshalOptional(session.Shipping)
	if err != nil {
		return fmt.Errorf("sqlite: encode shipping: %w", err)
	}
	setup, err := marshalOptional(session.Setup)
	if err != nil {
		return fmt.Errorf("sqlite: encode setup: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertSessionSQL,
		session.ID,
		mapStringNull(session.CustomerID),
		mapStringNull(session.AnonymousID),
		session.CartID,
		session.CartVersion,
		session.PaymentToken,
		string(session.TokenType),
		session.TotalAmount.Amount,
		session.TotalAmount.Currency,
		string(billing),
		shipping,
		setup,
		string(session.Status),
		session.CreatedAt.UTC(),
		session.ExpiresAt.UTC(),
		session.ExpiresAt.Unix(),
		mapOptionalTime(session.UsedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return store.NewStorageError("sqlite: create session", err)
	}
	return nil
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.AuthenticationSession, error) {
	var (
		session      domain.AuthenticationSession
		customerID   sql.NullString
		anonymousID  sql.NullString
		tokenType    string
		billingJSON  string
		shippingJSON sql.NullString
		setupJSON    sql.NullString
		status       string
		usedAt       sql.NullTime
	)

	row := r.db.QueryRowContext(ctx, selectSessionSQL, id)
	err := row.Scan(
		&session.ID,
		&customerID,
		&anonymousID,
		&session.CartID,
		&session.CartVersion,
		&session.PaymentToken,
		&tokenType,
		&session.TotalAmount.Amount,
		&session.TotalAmount.Currency,
		&billingJSON,
		&shippingJSON,
		&setupJSON,
		&status,
		&session.CreatedAt,
		&session.ExpiresAt,
		&usedAt,
	)
	if err != nil {
		return domain.AuthenticationSession{}, mapQueryErr("sqlite: get session", err)
	}

	session.CustomerID = mapNullString(customerID)
	session.AnonymousID = mapNullString(anonymousID)
	session.TokenType = domain.TokenType(tokenType)
	session.Status = domain.SessionStatus(status)
	session.UsedAt = mapNullTimePtr(usedAt)

	if err := json.Unmarshal([]byte(billingJSON), &session.Billing); err != nil {
		return domain.AuthenticationSession{}, fmt.Errorf("sqlite: decode billing: %w", err)
	}
	if session.Shipping, err = unmarshalOptional[domain.ShippingDetails](shippingJSON); err != nil {
		return domain.AuthenticationSession{}, fmt.Errorf("sqlite: decode shipping: %w", err)
	}
	if session.Setup, err = unmarshalOptional[domain.SetupData](setupJSON); err != nil {
		return domain.AuthenticationSession{}, fmt.Errorf("sqlite: decode setup: %w", err)
	}

	// A lapsed row still awaiting the sweep reads as absent.
	if !time.Now().Before(session.ExpiresAt) {
		return domain.AuthenticationSession{}, store.ErrNotFound
	}
	return session, nil
}

func (r *sessionsRepo) UpdateSessionStatus(ctx context.Context, id string, expected, next domain.SessionStatus) error {
	var (
		res sql.Result
		err error
	)
	if next == domain.SessionStatusUsed {
		res, err = r.db.ExecContext(ctx,
			`UPDATE sessions SET status = ?, used_at = ? WHERE id = ? AND status = ?`,
			string(next), time.Now().UTC(), id, string(expected))
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE sessions SET status = ? WHERE id = ? AND status = ?`,
			string(next), id, string(expected))
	}
	if err != nil {
		return store.NewStorageError("sqlite: update session status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.NewStorageError("sqlite: update session status", err)
	}
	if n > 0 {
		return nil
	}

	// Zero rows: the id is missing or another caller already moved the status.
	var exists bool
	probe := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM sessions WHERE id = ?)`, id)
	if err := probe.Scan(&exists); err != nil {
		return store.NewStorageError("sqlite: update session status", err)
	}
	if !exists {
		return store.ErrNotFound
	}
	return store.ErrStatusConflict
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, store.NewStorageError("sqlite: delete session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, store.NewStorageError("sqlite: delete session", err)
	}
	return n > 0, nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_epoch <= ?`, time.Now().Unix())
	return store.NewStorageError("sqlite: delete expired sessions", err)
}

func marshalOptional[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalOptional[T any](ns sql.NullString) (*T, error) {
	if !ns.Valid {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(ns.String), &v); err != nil {
		return nil, err
	}
	return &v, nil
}
