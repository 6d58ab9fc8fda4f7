package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/resumeforge/resumeforge/internal/resume"
)

// PostgresRepo stores resumes in the "resumes" table, one JSONB column per
// section.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

const selectColumns = `id::text, user_id, title, personal_info, education, skills, experience, projects, languages, created_at, updated_at`

// sections is the JSONB-encoded editable part of a record.
type sections struct {
	personalInfo, education, skills, experience, projects, languages []byte
}

func encodeSections(r *resume.Record) (sections, error) {
	var s sections
	var err error
	enc := func(dst *[]byte, v interface{}) {
		if err != nil {
			return
		}
		*dst, err = json.Marshal(v)
	}
	enc(&s.personalInfo, r.PersonalInfo)
	enc(&s.education, r.Education)
	enc(&s.skills, r.Skills)
	enc(&s.experience, r.Experience)
	enc(&s.projects, r.Projects)
	enc(&s.languages, r.Languages)
	return s, err
}

func (s sections) decodeInto(r *resume.Record) error {
	pairs := []struct {
		raw []byte
		dst interface{}
	}{
		{s.personalInfo, &r.PersonalInfo},
		{s.education, &r.Education},
		{s.skills, &r.Skills},
		{s.experience, &r.Experience},
		{s.projects, &r.Projects},
		{s.languages, &r.Languages},
	}
	for _, p := range pairs {
		if len(p.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(p.raw, p.dst); err != nil {
			return fmt.Errorf("decode resume column: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*resume.Record, error) {
	var rec resume.Record
	var s sections
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Title,
		&s.personalInfo, &s.education, &s.skills, &s.experience, &s.projects, &s.languages,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := s.decodeInto(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (p *PostgresRepo) Create(ctx context.Context, rec *resume.Record) error {
	s, err := encodeSections(rec)
	if err != nil {
		return err
	}
	rec.ID = resume.NewID()
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	_, err = p.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, title, personal_info, education, skills, experience, projects, languages, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, rec.UserID, rec.Title, s.personalInfo, s.education, s.skills, s.experience, s.projects, s.languages, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

func (p *PostgresRepo) List(ctx context.Context, ownerID string) ([]*resume.Record, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+selectColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()
	out := []*resume.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *PostgresRepo) Get(ctx context.Context, id string) (*resume.Record, error) {
	rec, err := scanRecord(p.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM resumes WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return rec, nil
}

func (p *PostgresRepo) Update(ctx context.Context, id string, d resume.Document) (*resume.Record, error) {
	next := resume.ToRecord("", d)
	s, err := encodeSections(next)
	if err != nil {
		return nil, err
	}
	row := p.pool.QueryRow(ctx, `UPDATE resumes SET title = $2, personal_info = $3, education = $4, skills = $5, experience = $6, projects = $7, languages = $8, updated_at = $9
		WHERE id::text = $1 RETURNING `+selectColumns,
		id, next.Title, s.personalInfo, s.education, s.skills, s.experience, s.projects, s.languages, time.Now().UTC())
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update resume: %w", err)
	}
	return rec, nil
}

func (p *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM resumes WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
