package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, auth *TokenAuth, c *common.Cache) *UserService {
	return &UserService{
		m:    newUserModel(db),
		auth: auth,
		c:    c,
	}
}

// CreateUser creates a new user account. The plaintext password is hashed
// with bcrypt before it touches the database and is never returned.
func (s *UserService) CreateUser(ctx context.Context, username, name, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateName(v, name)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Name:     name,
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	u.Blogs = []int{}

	s.c.Delete(common.CacheKeyUserList())

	return &u, nil
}

// LoginUser checks the credentials and issues a signed bearer token. Unknown
// usernames and wrong passwords both report ErrAuthenticationFailure.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (string, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if !v.Valid() {
		return "", v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return "", ErrAuthenticationFailure
		default:
			return "", err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", ErrAuthenticationFailure
	}

	return s.auth.NewToken(user.ID)
}

// Authenticate resolves a bearer token to the user it was issued for. A token
// that verifies but no longer maps to a stored user is treated as invalid.
func (s *UserService) Authenticate(ctx context.Context, token string) (*User, error) {
	userID, err := s.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.m.getUserById(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	return user, nil
}

// GetUsers returns all user accounts with their owned blog ids.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	if cached, ok := s.c.Get(common.CacheKeyUserList()); ok {
		return cached.([]User), nil
	}

	users, err := s.m.getUsers(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyUserList(), users)

	return users, nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
