package blogservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
)

// Owner is the reduced view of a user that is embedded in blog responses. The
// full user record is never returned here so that password material cannot
// leak through the blog endpoints.
type Owner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Blog struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	Owner     *Owner    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
