package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"veritask/internal/verification/models"
	id "veritask/pkg/domain"
	"veritask/pkg/platform/sentinel"
)

// PostgresStore persists aggregates as JSONB documents. The document is the
// aggregate's own serialization contract, so every field, including the full
// status history, survives the round trip. Frequently queried columns are
// denormalized beside the document.
//
// Schema:
//
//	CREATE TABLE verification_requests (
//	    id             UUID PRIMARY KEY,
//	    client_id      UUID        NOT NULL,
//	    state          TEXT        NOT NULL,
//	    payment_status TEXT        NOT NULL,
//	    data           JSONB       NOT NULL,
//	    created_at     TIMESTAMPTZ NOT NULL,
//	    modified_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX verification_requests_client_idx ON verification_requests (client_id, created_at DESC);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgresStore over an existing pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the backing table and index if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS verification_requests (
		    id             UUID PRIMARY KEY,
		    client_id      UUID        NOT NULL,
		    state          TEXT        NOT NULL,
		    payment_status TEXT        NOT NULL,
		    data           JSONB       NOT NULL,
		    created_at     TIMESTAMPTZ NOT NULL,
		    modified_at    TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS verification_requests_client_idx
		    ON verification_requests (client_id, created_at DESC)`)
	if err != nil {
		return fmt.Errorf("ensure verification_requests schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, requestID id.VerificationID) (*models.VerificationRequest, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM verification_requests WHERE id = $1`,
		requestID.String(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load verification request: %w", err)
	}
	return decode(data)
}

func (s *PostgresStore) Save(ctx context.Context, request *models.VerificationRequest) (*models.VerificationRequest, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode verification request: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO verification_requests (id, client_id, state, payment_status, data, created_at, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     state = EXCLUDED.state,
		     payment_status = EXCLUDED.payment_status,
		     data = EXCLUDED.data,
		     modified_at = EXCLUDED.modified_at`,
		request.ID.String(),
		request.ClientID.String(),
		string(request.Status.State),
		string(request.PaymentStatus),
		data,
		request.CreatedAt,
		request.ModifiedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("save verification request: %w", err)
	}
	return decode(data)
}

func (s *PostgresStore) ListByClient(ctx context.Context, clientID id.ClientID) ([]*models.VerificationRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM verification_requests WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list verification requests: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (s *PostgresStore) ListPaidPending(ctx context.Context) ([]*models.VerificationRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM verification_requests
		 WHERE payment_status = $1 AND state = $2
		 ORDER BY created_at DESC`,
		string(models.PaymentStatusPaid),
		string(models.StatePendingPayment),
	)
	if err != nil {
		return nil, fmt.Errorf("list paid pending requests: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func decode(data []byte) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("decode verification request: %w", err)
	}
	return &request, nil
}

func collect(rows pgx.Rows) ([]*models.VerificationRequest, error) {
	var out []*models.VerificationRequest
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan verification request: %w", err)
		}
		request, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification requests: %w", err)
	}
	return out, nil
}
