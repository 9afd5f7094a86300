package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallybook/backend/internal/httputil"
	"github.com/tallybook/backend/internal/storage"
)

// prepare normalizes a freshly bound record, fills its defaults and runs
// its validation if it has one.
func prepare[T any](record *T) error {
	if n, ok := any(record).(storage.Normalizer); ok {
		n.Normalize()
	}

	if d, ok := any(record).(interface{ EnsureDefaults() }); ok {
		d.EnsureDefaults()
	}

	if v, ok := any(*record).(interface{ Validate() error }); ok {
		return v.Validate()
	}

	return nil
}

// partitionOf returns the book ID for a partitioned list from the request
// path, and the empty string for unpartitioned lists.
func partitionOf[T storage.Record](list storage.List[T], c *gin.Context) string {
	if list.Partitioned {
		return c.Param("bookId")
	}

	return ""
}

// RegisterListRoutes registers the collection CRUD routes for a list
// collection. Every route works on the whole collection document; updates
// replace records in full, there are no partial updates.
func RegisterListRoutes[T storage.Record](r *gin.RouterGroup, store *storage.Store, list storage.List[T]) {
	r.OPTIONS("", httputil.OptionsGetPostPut)
	r.GET("", getRecords(store, list))
	r.POST("", createRecord(store, list))
	r.PUT("", replaceRecords(store, list))

	r.OPTIONS("/:id", httputil.OptionsGetPutDelete)
	r.GET("/:id", getRecord(store, list))
	r.PUT("/:id", updateRecord(store, list))
	r.DELETE("/:id", deleteRecord(store, list))
}

// @Summary		List records
// @Description	Returns all records of the collection
// @Produce		json
func getRecords[T storage.Record](store *storage.Store, list storage.List[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := storage.LoadList(store, list, partitionOf(list, c))
		if err != nil {
			e := err.Error()
			c.JSON(status(err), listResponse[T]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newListResponse(items))
	}
}

// @Summary		Create record
// @Description	Appends a record to the collection
// @Accept		json
// @Produce		json
func createRecord[T storage.Record](store *storage.Store, list storage.List[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var record T
		if err := c.ShouldBindJSON(&record); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[T]{Error: &e})
			return
		}

		if err := prepare(&record); err != nil {
			e := err.Error()
			c.JSON(status(err), response[T]{Error: &e})
			return
		}

		if err := storage.AddRecord(store, list, partitionOf(list, c), record); err != nil {
			e := err.Error()
			c.JSON(status(err), response[T]{Error: &e})
			return
		}

		c.JSON(http.StatusCreated, newResponse(record))
	}
}

// @Summary		Replace collection
// @Description	Replaces the whole collection document
// @Accept		json
// @Produce		json
func replaceRecords[T storage.Record](store *storage.Store, list storage.List[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []T
		if err := c.ShouldBindJSON(&items); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, listResponse[T]{Error: &e})
			return
		}

		for i := range items {
			if err := prepare(&items[i]); err != nil {
				e := err.Error()
				c.JSON(status(err), listResponse[T]{Error: &e})
				return
			}
		}

		if err := storage.SaveList(store, list, partitionOf(list, c), items); err != nil {
			e := err.Error()
			c.JSON(status(err), listResponse[T]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newListResponse(items))
	}
}

// @Summary		Get record
// @Description	Returns a specific record
// @Produce		json
func getRecord[T storage.Record](store *storage.Store, list storage.List[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := storage.LoadList(store, list, partitionOf(list, c))
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[T]{Error: &e})
			return
		}

		record, ok := storage.FindRecord(items, c.Param("id"))
		if !ok {
			e := errRecordNotFound.Error()
			c.JSON(http.StatusNotFound, response[T]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(record))
	}
}

// @Summary		Update record
// @Description	Replaces the record with the ID from the path
// @Accept		json
// @Produce		json
func updateRecord[T storage.Record](store *storage.Store, list storage.List[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		partition := partitionOf(list, c)

		items, err := storage.LoadList(store, list, partition)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[T]{Error: &e})
			return
		}

		if _, ok := storage.FindRecord(items, c.Param("id")); !ok {
			e := errRecordNotFound.Error()
			c.JSON(http.StatusNotFound, response[T]{Error: &e})
			return
		}

		var record T
		if err := c.ShouldBindJSON(&record); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[T]{Error: &e})
			return
		}

		// The identity of the record comes from the path, not the body.
		if s, ok := any(&record).(interface{ SetRecordID(string) }); ok {
			s.SetRecordID(c.Param("id"))
		}

		if err := prepare(&record); err != nil {
			e := err.Error()
			c.JSON(status(err), response[T]{Error: &e})
			return
		}

		if err := storage.UpdateRecord(store, list, partition, record); err != nil {
			e := err.Error()
			c.JSON(status(err), response[T]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(record))
	}
}

// @Summary		Delete record
// @Description	Removes the record with the ID from the path
func deleteRecord[T storage.Record](store *storage.Store, list storage.List[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := storage.RemoveRecord(store, list, partitionOf(list, c), c.Param("id")); err != nil {
			abortError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// RegisterDocumentRoutes registers get and replace routes for a singleton
// collection like the settings.
func RegisterDocumentRoutes[T any](r *gin.RouterGroup, store *storage.Store, document storage.Document[T]) {
	r.OPTIONS("", httputil.OptionsGetPut)

	// @Summary		Get document
	// @Description	Returns the singleton collection document
	// @Produce		json
	r.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, newResponse(storage.LoadDocument(store, document)))
	})

	// @Summary		Replace document
	// @Description	Replaces the singleton collection document
	// @Accept		json
	// @Produce		json
	r.PUT("", func(c *gin.Context) {
		var value T
		if err := c.ShouldBindJSON(&value); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[T]{Error: &e})
			return
		}

		if err := storage.SaveDocument(store, document, value); err != nil {
			e := err.Error()
			c.JSON(status(err), response[T]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(value))
	})
}
