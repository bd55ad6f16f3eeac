package generations

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a generation record. An empty user id is stored as NULL.
func (r *PGRepo) Create(ctx context.Context, gen Generation) error {
	const query = `
INSERT INTO resume_generations (
    id, user_id, job_description, skills_and_projects, generated_intro, source, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		gen.ID,
		nullableString(gen.UserID),
		gen.JobDescription,
		gen.SkillsAndProjects,
		gen.GeneratedIntro,
		gen.Source,
		gen.CreatedAt,
	)
	return err
}

// ListByUser lists generations for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Generation, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, job_description, skills_and_projects, generated_intro, source, created_at
FROM resume_generations
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var gen Generation
		var uid sql.NullString
		if err := rows.Scan(
			&gen.ID,
			&uid,
			&gen.JobDescription,
			&gen.SkillsAndProjects,
			&gen.GeneratedIntro,
			&gen.Source,
			&gen.CreatedAt,
		); err != nil {
			return nil, err
		}
		gen.UserID = uid.String
		out = append(out, gen)
	}
	return out, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
