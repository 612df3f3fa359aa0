package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m    *DBModel
	auth *TokenAuth
	c    *common.Cache
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Blogs holds the ids of the blog posts this user owns, oldest first.
	Blogs []int `json:"blogs"`
}

type Password struct {
	hash []byte
}
