// Package statservice computes aggregate metrics over a collection of blog
// posts. All functions are pure and treat their input as read-only.
package statservice

import (
	"github.com/sushihentaime/bloglist/internal/blogservice"
)

type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// TotalLikes returns the sum of likes across all blogs. An empty collection
// sums to zero.
func TotalLikes(blogs []blogservice.Blog) int {
	total := 0
	for _, blog := range blogs {
		total += blog.Likes
	}
	return total
}

// FavoriteBlog returns the blog with the most likes. Ties go to the earliest
// blog in input order. The second return value is false when the collection
// is empty, since a zero-like favorite is a valid result.
func FavoriteBlog(blogs []blogservice.Blog) (blogservice.Blog, bool) {
	if len(blogs) == 0 {
		return blogservice.Blog{}, false
	}

	favorite := blogs[0]
	for _, blog := range blogs[1:] {
		if blog.Likes > favorite.Likes {
			favorite = blog
		}
	}

	return favorite, true
}

// authorTotals accumulates a per-author total using the given weight
// function. Authors are returned in first-occurrence order so that callers
// get a deterministic tie-break instead of map iteration order.
func authorTotals(blogs []blogservice.Blog, weight func(blogservice.Blog) int) ([]string, map[string]int) {
	order := make([]string, 0, len(blogs))
	totals := make(map[string]int, len(blogs))

	for _, blog := range blogs {
		if _, seen := totals[blog.Author]; !seen {
			order = append(order, blog.Author)
		}
		totals[blog.Author] += weight(blog)
	}

	return order, totals
}

// MostBlogs returns the author with the largest number of blogs. Ties go to
// the author that appears first in input order. The second return value is
// false when the collection is empty.
func MostBlogs(blogs []blogservice.Blog) (AuthorBlogs, bool) {
	if len(blogs) == 0 {
		return AuthorBlogs{}, false
	}

	order, counts := authorTotals(blogs, func(blogservice.Blog) int { return 1 })

	top := order[0]
	for _, author := range order[1:] {
		if counts[author] > counts[top] {
			top = author
		}
	}

	return AuthorBlogs{Author: top, Blogs: counts[top]}, true
}

// MostLikes returns the author whose blogs have the highest combined likes.
// Same tie-break and empty-input rules as MostBlogs.
func MostLikes(blogs []blogservice.Blog) (AuthorLikes, bool) {
	if len(blogs) == 0 {
		return AuthorLikes{}, false
	}

	order, likes := authorTotals(blogs, func(b blogservice.Blog) int { return b.Likes })

	top := order[0]
	for _, author := range order[1:] {
		if likes[author] > likes[top] {
			top = author
		}
	}

	return AuthorLikes{Author: top, Likes: likes[top]}, true
}

// Stats bundles every aggregate for the reporting endpoint. The pointer
// fields are nil when the collection is empty.
type Stats struct {
	Blogs      int               `json:"blogs"`
	TotalLikes int               `json:"total_likes"`
	Favorite   *blogservice.Blog `json:"favorite,omitempty"`
	MostBlogs  *AuthorBlogs      `json:"most_blogs,omitempty"`
	MostLikes  *AuthorLikes      `json:"most_likes,omitempty"`
}

// Collect computes all aggregates over the given collection.
func Collect(blogs []blogservice.Blog) Stats {
	stats := Stats{
		Blogs:      len(blogs),
		TotalLikes: TotalLikes(blogs),
	}

	if favorite, ok := FavoriteBlog(blogs); ok {
		stats.Favorite = &favorite
	}
	if most, ok := MostBlogs(blogs); ok {
		stats.MostBlogs = &most
	}
	if most, ok := MostLikes(blogs); ok {
		stats.MostLikes = &most
	}

	return stats
}
