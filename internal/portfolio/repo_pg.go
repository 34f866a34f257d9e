package portfolio

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetPersonal(ctx context.Context, lang string) (Personal, error) {
	const query = `
SELECT name, title, email, location, github, linkedin, summary, tag
FROM profile
WHERE language = $1
LIMIT 1`
	var p Personal
	err := r.DB.QueryRowContext(ctx, query, lang).Scan(
		&p.Name,
		&p.Title,
		&p.Email,
		&p.Location,
		&p.GitHub,
		&p.LinkedIn,
		&p.Summary,
		&p.Tag,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Personal{}, ErrNotFound
		}
		return Personal{}, err
	}
	return p, nil
}

func (r *PGRepo) ListSkills(ctx context.Context) ([]Skill, error) {
	const query = `
SELECT name, level, category, years_experience, is_expert, icon
FROM skills
ORDER BY sort_order, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.Name, &s.Level, &s.Category, &s.YearsExperience, &s.IsExpert, &s.Icon); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *PGRepo) ListProjects(ctx context.Context, lang string) ([]Project, error) {
	const query = `
SELECT title, description, technologies, status, category, featured, year, COALESCE(repo_url, ''), COALESCE(live_url, '')
FROM projects
WHERE language = $1
ORDER BY sort_order, id`
	rows, err := r.DB.QueryContext(ctx, query, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		var p Project
		var techRaw []byte
		var status string
		if err := rows.Scan(&p.Title, &p.Description, &techRaw, &status, &p.Category, &p.Featured, &p.Year, &p.RepoURL, &p.LiveURL); err != nil {
			return nil, err
		}
		p.Status = ProjectStatus(status)
		if p.Technologies, err = decodeStrings(techRaw); err != nil {
			return nil, fmt.Errorf("project %q technologies: %w", p.Title, err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *PGRepo) ListExperience(ctx context.Context, lang string) ([]Experience, error) {
	const query = `
SELECT company, job_title, period, description, achievements, technologies
FROM experience
WHERE language = $1
ORDER BY sort_order, id`
	rows, err := r.DB.QueryContext(ctx, query, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Experience, 0)
	for rows.Next() {
		var e Experience
		var achievementsRaw, techRaw []byte
		if err := rows.Scan(&e.Company, &e.Position, &e.Period, &e.Description, &achievementsRaw, &techRaw); err != nil {
			return nil, err
		}
		if e.Achievements, err = decodeStrings(achievementsRaw); err != nil {
			return nil, fmt.Errorf("experience %q achievements: %w", e.Company, err)
		}
		if e.Technologies, err = decodeStrings(techRaw); err != nil {
			return nil, fmt.Errorf("experience %q technologies: %w", e.Company, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceContent overwrites every content table with c in one transaction.
func (r *PGRepo) ReplaceContent(ctx context.Context, c Content) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"experience", "projects", "skills", "profile"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	const insertProfile = `
INSERT INTO profile (language, name, title, email, location, github, linkedin, summary, tag)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, lang := range c.Languages() {
		p := c.Personal[lang]
		if _, err := tx.ExecContext(ctx, insertProfile, lang, p.Name, p.Title, p.Email, p.Location, p.GitHub, p.LinkedIn, p.Summary, p.Tag); err != nil {
			return fmt.Errorf("insert profile %s: %w", lang, err)
		}
	}

	const insertSkill = `
INSERT INTO skills (sort_order, name, level, category, years_experience, is_expert, icon)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, s := range c.Skills {
		if _, err := tx.ExecContext(ctx, insertSkill, i, s.Name, s.Level, s.Category, s.YearsExperience, s.IsExpert, s.Icon); err != nil {
			return fmt.Errorf("insert skill %q: %w", s.Name, err)
		}
	}

	const insertProject = `
INSERT INTO projects (language, sort_order, title, description, technologies, status, category, featured, year, repo_url, live_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, lang := range sortedKeys(c.Projects) {
		for i, p := range c.Projects[lang] {
			tech, err := encodeStrings(p.Technologies)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, insertProject, lang, i, p.Title, p.Description, tech, string(p.Status), p.Category, p.Featured, p.Year, nullableString(p.RepoURL), nullableString(p.LiveURL)); err != nil {
				return fmt.Errorf("insert project %q: %w", p.Title, err)
			}
		}
	}

	const insertExperience = `
INSERT INTO experience (language, sort_order, company, job_title, period, description, achievements, technologies)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, lang := range sortedKeys(c.Experience) {
		for i, e := range c.Experience[lang] {
			achievements, err := encodeStrings(e.Achievements)
			if err != nil {
				return err
			}
			tech, err := encodeStrings(e.Technologies)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, insertExperience, lang, i, e.Company, e.Position, e.Period, e.Description, achievements, tech); err != nil {
				return fmt.Errorf("insert experience %q: %w", e.Company, err)
			}
		}
	}

	return tx.Commit()
}

func decodeStrings(raw []byte) ([]string, error) {
	out := make([]string, 0)
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]string, 0)
	}
	return out, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
