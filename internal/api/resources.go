package api

import (
	"bytes"
	"net/http"
	"strconv"

	"vending-console/internal/collection"
	"vending-console/internal/response"
	"vending-console/internal/views"

	"github.com/gin-gonic/gin"
)

type rowsPayload struct {
	Resource string      `json:"resource"`
	Rows     []views.Row `json:"rows"`
	Loading  bool        `json:"loading"`
	Loaded   bool        `json:"loaded"`
}

// ListResources describes every resource
func (h *Handler) ListResources(c *gin.Context) {
	response.SuccessJSON(c, h.Registry.Descriptors())
}

func (h *Handler) table(c *gin.Context) (views.Table, bool) {
	name := c.Param("name")
	t, ok := h.Tables.Get(name)
	if !ok {
		response.ErrorJSON(c, http.StatusNotFound, "unknown resource: "+name)
		return nil, false
	}
	return t, true
}

func (h *Handler) rows(c *gin.Context, t views.Table) rowsPayload {
	return rowsPayload{
		Resource: t.Descriptor().Name,
		Rows:     t.Rows(c.Request.Context(), c.Query("q")),
		Loading:  t.Loading(),
		Loaded:   t.Loaded(),
	}
}

// ensureLoaded loads the table on first use or when refresh=true
func ensureLoaded(c *gin.Context, t views.Table) bool {
	if t.Loaded() && c.Query("refresh") != "true" {
		return true
	}
	if err := t.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return false
	}
	return true
}

// ListRows returns the projected rows matching q
func (h *Handler) ListRows(c *gin.Context) {
	t, ok := h.table(c)
	if !ok || !ensureLoaded(c, t) {
		return
	}
	response.SuccessJSON(c, h.rows(c, t))
}

// LoadResource reloads a resource and its siblings
func (h *Handler) LoadResource(c *gin.Context) {
	t, ok := h.table(c)
	if !ok {
		return
	}
	if err := t.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessJSON(c, h.rows(c, t))
}

// CreateRecord submits a new record built from the JSON body
func (h *Handler) CreateRecord(c *gin.Context) {
	h.submit(c, 0)
}

// UpdateRecord submits changes to an existing record
func (h *Handler) UpdateRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorJSON(c, http.StatusBadRequest, "invalid id")
		return
	}
	h.submit(c, id)
}

func (h *Handler) submit(c *gin.Context, id int64) {
	t, ok := h.table(c)
	if !ok {
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	// the cache must know the record before it can be updated
	if id != 0 && !ensureLoaded(c, t) {
		return
	}

	edit := collection.PendingEdit{ID: id, Fields: fields}
	if err := t.Submit(c.Request.Context(), edit); err != nil {
		writeError(c, err)
		return
	}
	messages := t.Descriptor().Messages
	message := messages.Updated
	if edit.IsCreate() {
		message = messages.Created
	}
	response.MessageJSON(c, message, h.rows(c, t))
}

// DeleteRecord removes a record
func (h *Handler) DeleteRecord(c *gin.Context) {
	t, ok := h.table(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorJSON(c, http.StatusBadRequest, "invalid id")
		return
	}
	if !ensureLoaded(c, t) {
		return
	}
	if err := t.Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.MessageJSON(c, t.Descriptor().Messages.Removed, h.rows(c, t))
}

// ExportRows downloads the rows matching q as xlsx
func (h *Handler) ExportRows(c *gin.Context) {
	t, ok := h.table(c)
	if !ok || !ensureLoaded(c, t) {
		return
	}
	var buf bytes.Buffer
	if err := t.Export(c.Request.Context(), c.Query("q"), &buf); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+t.Descriptor().Name+".xlsx")
	c.Data(http.StatusOK, views.ContentType, buf.Bytes())
}
