package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/javaqube/cas/internal/yubiauth/domain"
	"github.com/javaqube/cas/internal/yubiauth/store"
)

type devicesRepo struct {
	db *sql.DB
}

func (r *devicesRepo) CreateDevice(ctx context.Context, d domain.Device) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, user_id, public_id, name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.PublicID, d.Name, d.CreatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *devicesRepo) GetDevicesForUser(ctx context.Context, userID string) ([]domain.Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, public_id, name, created_at
		 FROM devices WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.PublicID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *devicesRepo) IsRegistered(ctx context.Context, userID, publicID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM devices WHERE user_id = ? AND public_id = ?`,
		userID, publicID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *devicesRepo) DeleteDevice(ctx context.Context, userID, publicID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM devices WHERE user_id = ? AND public_id = ?`,
		userID, publicID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
