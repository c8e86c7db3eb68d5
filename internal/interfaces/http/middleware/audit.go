package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/ServiLut/tote-bag/internal/domain/audit"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// maxAuditFormMemory bounds the in-memory part of a re-parsed multipart
// body; larger file parts spill to temp files that are removed at once
const maxAuditFormMemory = 8 << 20

// AuditRecorder snapshots entities and stores audit entries
type AuditRecorder interface {
	PreviousState(ctx context.Context, entity, id string) []byte
	Record(ctx context.Context, e audit.Entry)
}

// Audit records every successful POST/PUT/PATCH/DELETE. The entity is the
// first path segment after prefix. For updates and deletes the current
// row is captured before the handler runs, so mount it after the route
// guards (Router.Wrap). Form and multipart bodies are stored as their
// text fields; file parts are left out.
func Audit(recorder AuditRecorder, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if !audit.IsAudited(method) {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				abortUnreadableBody(c, err)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		payload := body
		if ct := c.ContentType(); ct == binding.MIMEPOSTForm || ct == binding.MIMEMultipartPOSTForm {
			payload = audit.FormPayload(formFields(c.Request, body))
		}

		entity := audit.EntityFromPath(c.Request.URL.Path, prefix)
		entityID, ok := audit.EntityIDFromBody(payload)
		if !ok {
			entityID = c.Param("id")
		}

		var previous []byte
		if audit.CapturesPrevious(method) && entityID != "" {
			previous = recorder.PreviousState(c.Request.Context(), entity, entityID)
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		entry := audit.Entry{
			Action:       method,
			Entity:       entity,
			EntityID:     entityID,
			Body:         payload,
			PreviousData: previous,
			IP:           c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}
		if ident := GetIdentity(c); ident != nil {
			entry.UserID = ident.UserID
		}
		recorder.Record(c.Request.Context(), entry)
	}
}

// formFields decodes the text fields of a buffered form body without
// touching the request the handler will read
func formFields(r *http.Request, body []byte) map[string][]string {
	clone := r.Clone(r.Context())
	clone.Body = io.NopCloser(bytes.NewReader(body))
	clone.Form, clone.PostForm, clone.MultipartForm = nil, nil, nil

	err := clone.ParseMultipartForm(maxAuditFormMemory)
	if clone.MultipartForm != nil {
		defer clone.MultipartForm.RemoveAll()
		return clone.MultipartForm.Value
	}
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return clone.PostForm
}

func abortUnreadableBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
			dto.ErrCodeRequestTooLarge,
			"Request body exceeds maximum allowed size",
			GetRequestID(c),
		))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrCodeBadRequest,
		"Failed to read request body",
		GetRequestID(c),
	))
}
