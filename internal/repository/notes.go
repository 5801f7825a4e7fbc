package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/diegomarmat/chela-suppliers/internal/common"
	"github.com/diegomarmat/chela-suppliers/internal/entity"
)

// dashboardNoteID pins the scratchpad to a single row.
const dashboardNoteID = 1

type DashboardNoteRepository interface {
	Get(ctx context.Context) (*entity.DashboardNote, error)
	Put(ctx context.Context, notes string) (*entity.DashboardNote, error)
}

type dashboardNoteRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewDashboardNoteRepository(db *DB, logger *slog.Logger) DashboardNoteRepository {
	return &dashboardNoteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *dashboardNoteRepository) Get(ctx context.Context) (*entity.DashboardNote, error) {
	var note entity.DashboardNote
	err := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT notes, updated_at FROM dashboard_notes WHERE id = ?`), dashboardNoteID).
		Scan(&note.Notes, &note.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// No note yet; an empty scratchpad, not an error.
		return &entity.DashboardNote{}, nil
	}
	if err != nil {
		r.logger.Error("failed to load dashboard note", "error", err)
		return nil, common.WrapError(err, "load dashboard note")
	}
	return &note, nil
}

func (r *dashboardNoteRepository) Put(ctx context.Context, notes string) (*entity.DashboardNote, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE dashboard_notes SET notes = ?, updated_at = ? WHERE id = ?`),
		notes, now, dashboardNoteID)
	if err != nil {
		r.logger.Error("failed to update dashboard note", "error", err)
		return nil, common.WrapError(err, "update dashboard note")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = r.db.ExecContext(ctx, r.db.rebind(
			`INSERT INTO dashboard_notes (id, notes, updated_at) VALUES (?, ?, ?)`),
			dashboardNoteID, notes, now)
		if err != nil {
			r.logger.Error("failed to insert dashboard note", "error", err)
			return nil, common.WrapError(err, "insert dashboard note")
		}
	}
	return &entity.DashboardNote{Notes: notes, UpdatedAt: now}, nil
}
