package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/statservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type registerUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input registerUserRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the user service
	user, err := app.userService.CreateUser(r.Context(), input.Username, input.Name, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateUsername):
			app.failedValidationErrorResponse(w, r, map[string]string{"username": "this username is already taken"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Return the response
	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type loginUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the user service
	token, err := app.userService.LoginUser(r.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.userService.GetUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"users": users}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getAllBlogsHandler(w http.ResponseWriter, r *http.Request) {
	blogs, err := app.blogService.GetBlogs(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) blogInfoHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"infomessage": "this is database api of blog app"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) blogStatsHandler(w http.ResponseWriter, r *http.Request) {
	blogs, err := app.blogService.GetBlogs(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	stats := statservice.Collect(blogs)

	err = app.writeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type createBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input createBlogRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// get the user from the context
	user := app.getUserContext(r)

	req := &blogservice.CreateBlogRequest{
		Title:  input.Title,
		Author: input.Author,
		URL:    input.URL,
		Likes:  input.Likes,
		UserID: user.ID,
	}

	// Call the blog service
	blog, err := app.blogService.CreateBlog(r.Context(), req)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.unAuthorizedErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updateBlogRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input updateBlogRequest

	// id is a URL parameter
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Parse the request body
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	req := &blogservice.UpdateBlogRequest{
		Title:  input.Title,
		Author: input.Author,
		URL:    input.URL,
		Likes:  input.Likes,
	}

	// Call the blog service
	blog, err := app.blogService.UpdateBlog(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	dbBlog, err := app.blogService.GetBlogByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	user := app.getUserContext(r)

	// Only the owner may delete a blog. A blog without an owner cannot be
	// deleted through the API at all.
	if dbBlog.Owner == nil || dbBlog.Owner.ID != user.ID {
		app.unAuthorizedErrorResponse(w, r)
		return
	}

	// Call the blog service
	err = app.blogService.DeleteBlog(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
