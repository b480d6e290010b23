package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/ports/backend"
)

const dateLayout = "2006-01-02"

const animalColumns = `
	id, name, type,
	age, birth_date, sex, breed,
	weight_centikg, size,
	registration_date, status,
	author_name, author_phone,
	url_image, description`

type AnimalsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db, now: time.Now}
}

func (r *AnimalsRepo) Put(ctx context.Context, a animals.Animal) error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			age = EXCLUDED.age,
			birth_date = EXCLUDED.birth_date,
			sex = EXCLUDED.sex,
			breed = EXCLUDED.breed,
			weight_centikg = EXCLUDED.weight_centikg,
			size = EXCLUDED.size,
			registration_date = EXCLUDED.registration_date,
			status = EXCLUDED.status,
			author_name = EXCLUDED.author_name,
			author_phone = EXCLUDED.author_phone,
			url_image = EXCLUDED.url_image,
			description = EXCLUDED.description
	`, animalArgs(a, r.now())...)
	return err
}

func (r *AnimalsRepo) Create(ctx context.Context, in animals.CreateAnimal) (animals.Animal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return animals.Animal{}, errors.New("animal name required")
	}

	now := r.now()
	a := animals.Animal{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Type:             in.Type,
		Age:              in.Age,
		Sex:              in.Sex,
		Breed:            in.Breed,
		Size:             in.Size,
		RegistrationDate: now.Format(dateLayout),
		Status:           animals.StatusAvailable,
		URLImage:         in.URLImage,
		Description:      in.Description,
	}
	if in.Weight != nil {
		a.Weight = *in.Weight
	}
	if in.Author != "" || in.Phone != "" {
		a.Author = &animals.Author{Name: in.Author, Phone: in.Phone}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, animalArgs(a, now)...)
	if isUniqueViolation(err) {
		return animals.Animal{}, ErrConflict
	}
	if err != nil {
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return animals.Animal{}, ErrNotFound
	}
	return a, err
}

func (r *AnimalsRepo) Search(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	query, args := searchQuery(f)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// searchQuery arma el SELECT con los filtros presentes, en orden de alta.
func searchQuery(f animals.Filter) (string, []any) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + animalColumns + ` FROM animals WHERE 1=1`)

	args := []any{}
	if f.Type != "" {
		args = append(args, string(f.Type))
		sb.WriteString(" AND type = $" + strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		sb.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(" ORDER BY created_at ASC, id ASC")
	return sb.String(), args
}

func animalArgs(a animals.Animal, createdAt time.Time) []any {
	var authorName, authorPhone string
	if a.Author != nil {
		authorName, authorPhone = a.Author.Name, a.Author.Phone
	}
	reg := toNullDate(a.RegistrationDate)
	if !reg.Valid {
		reg = sql.NullTime{Time: createdAt, Valid: true}
	}
	return []any{
		a.ID,
		a.Name,
		string(a.Type),
		a.Age,
		toNullDate(a.BirthDate),
		string(a.Sex),
		a.Breed,
		int(a.Weight),
		string(a.Size),
		reg,
		string(a.Status),
		authorName,
		authorPhone,
		a.URLImage,
		a.Description,
		createdAt,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (animals.Animal, error) {
	var (
		a                     animals.Animal
		typ, sex, size, st    string
		weight                int
		birth, reg            sql.NullTime
		authorName, authorTel string
	)
	if err := s.Scan(
		&a.ID,
		&a.Name,
		&typ,
		&a.Age,
		&birth,
		&sex,
		&a.Breed,
		&weight,
		&size,
		&reg,
		&st,
		&authorName,
		&authorTel,
		&a.URLImage,
		&a.Description,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Type = animals.Type(typ)
	a.Sex = animals.Sex(sex)
	a.Size = animals.Size(size)
	a.Status = animals.AdoptionStatus(st)
	a.Weight = animals.Centikg(weight)
	a.BirthDate = fromNullDate(birth)
	a.RegistrationDate = fromNullDate(reg)
	if authorName != "" || authorTel != "" {
		a.Author = &animals.Author{Name: authorName, Phone: authorTel}
	}
	return a, nil
}

// Las fechas viajan como YYYY-MM-DD; las columnas son DATE.
func toNullDate(s string) sql.NullTime {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func fromNullDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(dateLayout)
}

var _ backend.AnimalStore = (*AnimalsRepo)(nil)
