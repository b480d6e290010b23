package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petlar-client/internal/domain/users"
	"petlar-client/internal/ports/backend"
)

// UsersRepo guarda cuentas con el password hasheado (bcrypt).
type UsersRepo struct {
	db   *sql.DB
	cost int
	now  func() time.Time
}

// NewUsersRepo: cost 0 => bcrypt.DefaultCost.
func NewUsersRepo(db *sql.DB, cost int) *UsersRepo {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &UsersRepo{db: db, cost: cost, now: time.Now}
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (r *UsersRepo) Create(ctx context.Context, in users.RegisterPayload) (users.User, error) {
	email := normEmail(in.Email)
	if email == "" || in.Password == "" {
		return users.User{}, errors.New("email and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), r.cost)
	if err != nil {
		return users.User{}, err
	}

	u := users.User{ID: uuid.NewString(), Name: strings.TrimSpace(in.Name), Email: email}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, email, phone, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID,
		u.Name,
		u.Email,
		strings.TrimSpace(in.Phone),
		hash,
		r.now(),
	)
	if isUniqueViolation(err) {
		return users.User{}, ErrConflict
	}
	if err != nil {
		return users.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	var (
		u    users.User
		hash []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash
		FROM accounts
		WHERE email = $1
	`, normEmail(email)).Scan(&u.ID, &u.Name, &u.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, backend.ErrInvalidCredentials
	}
	if err != nil {
		return users.User{}, err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return users.User{}, backend.ErrInvalidCredentials
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, ErrNotFound
	}

	var u users.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email
		FROM accounts
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, ErrNotFound
	}
	return u, err
}

var _ backend.UserStore = (*UsersRepo)(nil)
