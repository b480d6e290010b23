package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petlar-client/internal/domain/users"
	"petlar-client/internal/ports/backend"
)

var ErrInvalidCredentials = backend.ErrInvalidCredentials

type account struct {
	user         users.User
	phone        string
	passwordHash []byte
}

// UserRepo guarda cuentas en memoria con el password hasheado (bcrypt).
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]account
	byEmail map[string]string
	cost    int
}

// NewUserRepo: cost 0 => bcrypt.DefaultCost.
func NewUserRepo(cost int) *UserRepo {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserRepo{
		byID:    make(map[string]account),
		byEmail: make(map[string]string),
		cost:    cost,
	}
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (r *UserRepo) Create(ctx context.Context, in users.RegisterPayload) (users.User, error) {
	email := normEmail(in.Email)
	if email == "" || in.Password == "" {
		return users.User{}, errors.New("email and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), r.cost)
	if err != nil {
		return users.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return users.User{}, ErrConflict
	}

	u := users.User{ID: uuid.NewString(), Name: strings.TrimSpace(in.Name), Email: email}
	r.byID[u.ID] = account{user: u, phone: strings.TrimSpace(in.Phone), passwordHash: hash}
	r.byEmail[email] = u.ID
	return u, nil
}

func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[normEmail(email)]
	var acc account
	if ok {
		acc = r.byID[id]
	}
	r.mu.RUnlock()

	if !ok {
		return users.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return users.User{}, ErrInvalidCredentials
	}
	return acc.user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byID[id]
	if !ok {
		return users.User{}, ErrNotFound
	}
	return acc.user, nil
}

var _ backend.UserStore = (*UserRepo)(nil)
