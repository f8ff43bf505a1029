package db

import (
	"context"
	"time"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Presentation struct {
	ID        string
	Title     string
	OwnerID   string
	Width     int32
	Height    int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Snapshot struct {
	ID             string
	PresentationID string
	Version        int32
	Document       []byte
	CreatedAt      time.Time
}

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (User, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		p.ID, p.Email, p.Password, p.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

type CreatePresentationParams struct {
	ID      string
	Title   string
	OwnerID string
	Width   int32
	Height  int32
}

func (q *Queries) CreatePresentation(ctx context.Context, p CreatePresentationParams) (Presentation, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO presentations (id, title, owner_id, width, height)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, owner_id, width, height, created_at, updated_at`,
		p.ID, p.Title, p.OwnerID, p.Width, p.Height)
	return scanPresentation(row)
}

func (q *Queries) GetPresentation(ctx context.Context, id string) (Presentation, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, title, owner_id, width, height, created_at, updated_at
		FROM presentations WHERE id = $1`, id)
	return scanPresentation(row)
}

func (q *Queries) ListPresentationsForUser(ctx context.Context, ownerID string) ([]Presentation, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, title, owner_id, width, height, created_at, updated_at
		FROM presentations WHERE owner_id = $1
		ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Presentation
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *Queries) DeletePresentation(ctx context.Context, id string) error {
	_, err := q.pool.Exec(ctx, `DELETE FROM presentations WHERE id = $1`, id)
	return err
}

func (q *Queries) TouchPresentation(ctx context.Context, id string) error {
	_, err := q.pool.Exec(ctx, `UPDATE presentations SET updated_at = now() WHERE id = $1`, id)
	return err
}

type CreateSnapshotParams struct {
	ID             string
	PresentationID string
	Document       []byte
}

// CreateSnapshot appends the next version for the presentation; versions are
// allocated inside the insert so concurrent saves cannot collide.
func (q *Queries) CreateSnapshot(ctx context.Context, p CreateSnapshotParams) (Snapshot, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO snapshots (id, presentation_id, version, document)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE presentation_id = $2),
			$3)
		RETURNING id, presentation_id, version, document, created_at`,
		p.ID, p.PresentationID, p.Document)
	var s Snapshot
	err := row.Scan(&s.ID, &s.PresentationID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

func (q *Queries) GetLatestSnapshot(ctx context.Context, presentationID string) (Snapshot, error) {
	row := q.pool.QueryRow(ctx, `
		SELECT id, presentation_id, version, document, created_at
		FROM snapshots WHERE presentation_id = $1
		ORDER BY version DESC LIMIT 1`, presentationID)
	var s Snapshot
	err := row.Scan(&s.ID, &s.PresentationID, &s.Version, &s.Document, &s.CreatedAt)
	return s, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPresentation(row scannable) (Presentation, error) {
	var p Presentation
	err := row.Scan(&p.ID, &p.Title, &p.OwnerID, &p.Width, &p.Height, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
