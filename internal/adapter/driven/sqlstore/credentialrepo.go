package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
	"github.com/ericfisherdev/graphpilot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQL implementation of the CredentialStore port interface.
// Tokens are encrypted with AES-256-GCM before write when a key is configured.
type CredentialRepo struct {
	db     *DB
	sealer sealer
}

// NewCredentialRepo creates a new CredentialRepo. key must be 32 bytes for
// AES-256-GCM, or nil to store tokens as plaintext.
func NewCredentialRepo(db *DB, key []byte) (*CredentialRepo, error) {
	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}
	return &CredentialRepo{db: db, sealer: s}, nil
}

// Save inserts a new credential row for userID. Earlier rows are kept.
func (r *CredentialRepo) Save(ctx context.Context, userID int64, token string) (model.Credential, error) {
	stored, err := r.sealer.seal(token)
	if err != nil {
		return model.Credential{}, fmt.Errorf("encrypt credential for user %d: %w", userID, err)
	}

	query := r.db.rebind(`INSERT INTO credentials (user_id, token) VALUES (?, ?) RETURNING id, created_at`)

	cred := model.Credential{UserID: userID, Token: token}
	var createdAt string
	if err := r.db.Writer.QueryRowContext(ctx, query, userID, stored).Scan(&cred.ID, &createdAt); err != nil {
		return model.Credential{}, fmt.Errorf("save credential for user %d: %w: %w", userID, driven.ErrStorageUnavailable, err)
	}

	cred.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Credential{}, fmt.Errorf("parse created_at for credential %d: %w", cred.ID, err)
	}
	return cred, nil
}

// Latest returns the newest credential for userID, or (nil, nil) if none exist.
// Rows sharing a timestamp are ordered by id.
func (r *CredentialRepo) Latest(ctx context.Context, userID int64) (*model.Credential, error) {
	query := r.db.rebind(`SELECT id, token, created_at FROM credentials
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`)

	cred := model.Credential{UserID: userID}
	var stored, createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, userID).Scan(&cred.ID, &stored, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest credential for user %d: %w: %w", userID, driven.ErrStorageUnavailable, err)
	}

	cred.Token, err = r.sealer.open(stored)
	if err != nil {
		return nil, fmt.Errorf("decrypt credential %d: %w", cred.ID, err)
	}

	cred.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for credential %d: %w", cred.ID, err)
	}
	return &cred, nil
}
