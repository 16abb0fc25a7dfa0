package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL mode reduces write latency by avoiding full fsync on every commit.
	// synchronous=NORMAL is safe with WAL and significantly faster than the default FULL.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	repo := &SQLiteRepository{db: db}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) UpsertNote(ctx context.Context, n NoteRecord) error {
	updated := n.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO notes(player, label, text, updated_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(player) DO UPDATE SET
			label=excluded.label,
			text=excluded.text,
			updated_at=excluded.updated_at`,
		n.Player, n.Label, n.Text, updated.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert note for %q: %w", n.Player, err)
	}
	return nil
}

func (r *SQLiteRepository) GetNote(ctx context.Context, player string) (*NoteRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT player, label, text, updated_at FROM notes WHERE player = ?`, player)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note for %q: %w", player, err)
	}
	return &n, nil
}

func (r *SQLiteRepository) ListNotes(ctx context.Context) ([]NoteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player, label, text, updated_at FROM notes ORDER BY player`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []NoteRecord
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *SQLiteRepository) DeleteNote(ctx context.Context, player string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE player = ?`, player); err != nil {
		return fmt.Errorf("delete note for %q: %w", player, err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertLabel(ctx context.Context, l LabelRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO labels(id, name, color)
		VALUES(?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			color=excluded.color`,
		l.ID, l.Name, l.Color)
	if err != nil {
		return fmt.Errorf("upsert label %q: %w", l.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) ListLabels(ctx context.Context) ([]LabelRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM labels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	var labels []LabelRecord
	for rows.Next() {
		var l LabelRecord
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *SQLiteRepository) DeleteLabel(ctx context.Context, name string) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE notes SET label = '' WHERE label = ?`, name); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE name = ?`, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete label %q: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (NoteRecord, error) {
	var n NoteRecord
	var updated string
	if err := row.Scan(&n.Player, &n.Label, &n.Text, &updated); err != nil {
		return NoteRecord{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return NoteRecord{}, fmt.Errorf("parse updated_at %q: %w", updated, err)
	}
	n.UpdatedAt = t
	return n, nil
}
