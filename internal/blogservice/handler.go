package blogservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/bloglist/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
	UserID int    `json:"user_id"`
}

// CreateBlog creates a new blog post owned by the given user. Likes defaults
// to zero when absent or null in the request.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateURL(v, req.URL)
	validateLikes(v, likes)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likes,
	}

	err := s.m.insert(ctx, blog, req.UserID)
	if err != nil {
		return nil, err
	}

	s.invalidate()

	return s.m.getBlogById(ctx, blog.ID)
}

// GetBlogByID returns a blog post by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
		return cached.(*Blog), nil
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlog(id), blog)

	return blog, nil
}

// GetBlogs returns all blog posts with their owner projections, newest first.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogList()); ok {
		return cached.([]Blog), nil
	}

	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogList(), blogs)

	return blogs, nil
}

type UpdateBlogRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

// UpdateBlog applies a partial patch to an existing blog post. Fields left
// out of the patch keep their stored values, except likes which resets to
// zero when absent or null.
func (s *BlogService) UpdateBlog(ctx context.Context, id int, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Author != nil {
		blog.Author = *req.Author
	}
	if req.URL != nil {
		blog.URL = *req.URL
	}

	blog.Likes = 0
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	validateTitle(v, blog.Title)
	validateURL(v, blog.URL)
	validateLikes(v, blog.Likes)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	updated, err := s.m.updateBlog(ctx, id, blog.Title, blog.Author, blog.URL, blog.Likes)
	if err != nil {
		return nil, err
	}

	s.invalidate()

	return updated, nil
}

// DeleteBlog deletes a blog post. Only the user who owns the blog post can delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, blogId, userId int) error {
	v := common.NewValidator()
	validateInt(v, blogId, "id")
	validateInt(v, userId, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.deleteBlog(ctx, blogId, userId)
	if err != nil {
		return err
	}

	s.invalidate()

	return nil
}

func (s *BlogService) invalidate() {
	s.c.Flush()
}
