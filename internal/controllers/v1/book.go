package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallybook/backend/internal/httputil"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

// RegisterBookRoutes registers the routes for account books and the
// current-book pointer. The books collection upholds the invariant that
// exactly one book is the default book.
func RegisterBookRoutes(r *gin.RouterGroup, store *storage.Store) {
	r.OPTIONS("", httputil.OptionsGetPostPut)
	r.GET("", getRecords(store, storage.Books))
	r.POST("", createBook(store))

	r.OPTIONS("/current", httputil.OptionsGetPut)
	r.GET("/current", getCurrentBook(store))
	r.PUT("/current", setCurrentBook(store))

	r.OPTIONS("/:bookId", httputil.OptionsGetPutDelete)
	r.GET("/:bookId", getBook(store))
	r.PUT("/:bookId", updateBook(store))
	r.DELETE("/:bookId", deleteBook(store))
}

// @Summary		Create account book
// @Description	Creates an account book. The first book becomes the default book and the current book.
// @Tags			Books
// @Accept		json
// @Produce		json
// @Router			/v1/books [post]
func createBook(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var book models.AccountBook
		if err := c.ShouldBindJSON(&book); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[models.AccountBook]{Error: &e})
			return
		}

		if err := prepare(&book); err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.AccountBook]{Error: &e})
			return
		}

		books, err := storage.LoadList(store, storage.Books, "")
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.AccountBook]{Error: &e})
			return
		}

		if len(books) == 0 {
			book.IsDefault = true
		}

		if book.IsDefault {
			for i := range books {
				books[i].IsDefault = false
			}
		}

		books = append(books, book)
		if err := storage.SaveList(store, storage.Books, "", books); err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.AccountBook]{Error: &e})
			return
		}

		// The first book also becomes the current book.
		if len(books) == 1 {
			err := storage.SaveDocument(store, storage.CurrentBook, models.CurrentBook{BookID: book.ID})
			if err != nil {
				e := err.Error()
				c.JSON(status(err), response[models.AccountBook]{Error: &e})
				return
			}
		}

		c.JSON(http.StatusCreated, newResponse(book))
	}
}

// @Summary		Get account book
// @Description	Returns a specific account book
// @Tags			Books
// @Produce		json
// @Router			/v1/books/{bookId} [get]
func getBook(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := storage.LoadList(store, storage.Books, "")
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.AccountBook]{Error: &e})
			return
		}

		book, ok := storage.FindRecord(books, c.Param("bookId"))
		if !ok {
			e := errRecordNotFound.Error()
			c.JSON(http.StatusNotFound, response[models.AccountBook]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(book))
	}
}

// @Summary		Update account book
// @Description	Replaces the account book. Making a book the default book unsets the previous default.
// @Tags			Books
// @Accept		json
// @Produce		json
// @Router			/v1/books/{bookId} [put]
func updateBook(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var book models.AccountBook
		if err := c.ShouldBindJSON(&book); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[models.AccountBook]{Error: &e})
			return
		}

		book.ID = c.Param("bookId")
		if err := prepare(&book); err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.AccountBook]{Error: &e})
			return
		}

		books, err := storage.LoadList(store, storage.Books, "")
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.AccountBook]{Error: &e})
			return
		}

		index := -1
		for i := range books {
			if books[i].ID == book.ID {
				index = i
			}
		}

		if index == -1 {
			e := errRecordNotFound.Error()
			c.JSON(http.StatusNotFound, response[models.AccountBook]{Error: &e})
			return
		}

		// The default flag can only move to another book, never disappear.
		if books[index].IsDefault {
			book.IsDefault = true
		}

		if book.IsDefault {
			for i := range books {
				books[i].IsDefault = false
			}
		}

		books[index] = book
		if err := storage.SaveList(store, storage.Books, "", books); err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.AccountBook]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(book))
	}
}

// @Summary		Delete account book
// @Description	Deletes the account book and its record subtree. The default book cannot be deleted.
// @Tags			Books
// @Router			/v1/books/{bookId} [delete]
func deleteBook(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := storage.LoadList(store, storage.Books, "")
		if err != nil {
			abortError(c, err)
			return
		}

		book, ok := storage.FindRecord(books, c.Param("bookId"))
		if !ok {
			abortError(c, errRecordNotFound)
			return
		}

		if book.IsDefault {
			abortError(c, models.ErrBookDefaultDelete)
			return
		}

		if err := storage.RemoveRecord(store, storage.Books, "", book.ID); err != nil {
			abortError(c, err)
			return
		}

		if err := store.RemovePartition(book.ID); err != nil {
			abortError(c, err)
			return
		}

		// If the deleted book was the current book, fall back to the default.
		current := storage.LoadDocument(store, storage.CurrentBook)
		if current.BookID == book.ID {
			for _, b := range books {
				if b.IsDefault {
					_ = storage.SaveDocument(store, storage.CurrentBook, models.CurrentBook{BookID: b.ID})
					break
				}
			}
		}

		c.Status(http.StatusNoContent)
	}
}

// @Summary		Get current book
// @Description	Returns the pointer to the book clients are working in
// @Tags			Books
// @Produce		json
// @Router			/v1/books/current [get]
func getCurrentBook(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := storage.LoadDocument(store, storage.CurrentBook)

		// Self-heal a dangling or unset pointer to the default book.
		books, err := storage.LoadList(store, storage.Books, "")
		if err == nil {
			if _, ok := storage.FindRecord(books, current.BookID); !ok {
				for _, book := range books {
					if book.IsDefault {
						current.BookID = book.ID
						_ = storage.SaveDocument(store, storage.CurrentBook, current)
						break
					}
				}
			}
		}

		c.JSON(http.StatusOK, newResponse(current))
	}
}

// @Summary		Set current book
// @Description	Points clients at another account book
// @Tags			Books
// @Accept		json
// @Produce		json
// @Router			/v1/books/current [put]
func setCurrentBook(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var current models.CurrentBook
		if err := c.ShouldBindJSON(&current); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[models.CurrentBook]{Error: &e})
			return
		}

		books, err := storage.LoadList(store, storage.Books, "")
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.CurrentBook]{Error: &e})
			return
		}

		if _, ok := storage.FindRecord(books, current.BookID); !ok {
			e := errRecordNotFound.Error()
			c.JSON(http.StatusNotFound, response[models.CurrentBook]{Error: &e})
			return
		}

		if err := storage.SaveDocument(store, storage.CurrentBook, current); err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.CurrentBook]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(current))
	}
}
