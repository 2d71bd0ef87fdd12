package router

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LACRA/agritrace360/internal/storage"
	"github.com/LACRA/agritrace360/internal/verification"
	"github.com/LACRA/agritrace360/internal/verification/report"
	"github.com/LACRA/agritrace360/utils"
)

// SnapshotSource loads the records a query is resolved against.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (verification.Collections, error)
}

type VerificationRouter struct {
	source   SnapshotSource
	resolver *verification.Resolver
	verifier *verification.Verifier
	renderer *report.Renderer
	archive  *storage.ArchiveService
}

// NewVerificationRouter wires the verification endpoints. archive may be nil,
// in which case the archive endpoint is not mounted.
func NewVerificationRouter(
	source SnapshotSource,
	resolver *verification.Resolver,
	verifier *verification.Verifier,
	renderer *report.Renderer,
	archive *storage.ArchiveService,
) *VerificationRouter {
	return &VerificationRouter{
		source:   source,
		resolver: resolver,
		verifier: verifier,
		renderer: renderer,
		archive:  archive,
	}
}

// VerifyRequest is the body of POST /api/verifications
type VerifyRequest struct {
	Query string `json:"query"`
}

// VerifyResponse carries the result and the notification shown to the user.
type VerifyResponse struct {
	Result       *verification.Result      `json:"result,omitempty"`
	Notification verification.Notification `json:"notification"`
}

// NotifiedError is an ErrorResponse that also carries the user notification.
type NotifiedError struct {
	utils.ErrorResponse
	Notification verification.Notification `json:"notification"`
}

// Register mounts the verification endpoints on g behind throttle.
func (r *VerificationRouter) Register(g *gin.RouterGroup, throttle gin.HandlerFunc) {
	g.POST("/verifications", throttle, r.HandleVerify)
	g.GET("/verifications/report", throttle, r.HandleDownloadReport)
	if r.archive != nil {
		g.POST("/verifications/report/archive", throttle, r.HandleArchiveReport)
	}
}

// HandleVerify handles POST /api/verifications
// Request body: VerifyRequest
// Response: VerifyResponse, for found and not found documents alike
func (r *VerificationRouter) HandleVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.WriteErrorCode(c, http.StatusBadRequest, utils.CodeInvalidArgument, "invalid request body")
		return
	}
	ctx := c.Request.Context()

	var collections verification.Collections
	if verification.Normalize(req.Query) != "" {
		var err error
		if collections, err = r.source.Snapshot(ctx); err != nil {
			r.writeError(c, err)
			return
		}
	}

	result, n, err := r.verifier.Verify(ctx, req.Query, collections)
	if err != nil {
		if errors.Is(err, verification.ErrEmptyQuery) {
			c.AbortWithStatusJSON(http.StatusBadRequest, NotifiedError{
				ErrorResponse: utils.ErrorResponse{Code: utils.CodeInvalidArgument, Message: err.Error()},
				Notification:  n,
			})
			return
		}
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, VerifyResponse{Result: &result, Notification: n})
}

// HandleDownloadReport handles GET /api/verifications/report?query=
// Response: the HTML verification report as an attachment
func (r *VerificationRouter) HandleDownloadReport(c *gin.Context) {
	query := c.Query("query")
	html, name, ok := r.render(c, query)
	if !ok {
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// HandleArchiveReport handles POST /api/verifications/report/archive
// Request body: VerifyRequest
// Response: storage.ArchiveMetadata
func (r *VerificationRouter) HandleArchiveReport(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.WriteErrorCode(c, http.StatusBadRequest, utils.CodeInvalidArgument, "invalid request body")
		return
	}
	html, name, ok := r.render(c, req.Query)
	if !ok {
		return
	}

	metadata, err := r.archive.ArchiveReport(c.Request.Context(), name, html)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, metadata)
}

// render resolves query and renders its report. It writes the error response
// itself and reports false when the request is finished.
func (r *VerificationRouter) render(c *gin.Context, query string) (string, string, bool) {
	ctx := c.Request.Context()
	if verification.Normalize(query) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, NotifiedError{
			ErrorResponse: utils.ErrorResponse{Code: utils.CodeInvalidArgument, Message: verification.ErrEmptyQuery.Error()},
			Notification:  verification.SearchRequired(),
		})
		return "", "", false
	}

	collections, err := r.source.Snapshot(ctx)
	if err != nil {
		r.writeError(c, err)
		return "", "", false
	}
	result, err := r.resolver.Resolve(query, collections)
	if err != nil {
		r.writeError(c, err)
		return "", "", false
	}
	if !result.Valid() {
		c.AbortWithStatusJSON(http.StatusNotFound, NotifiedError{
			ErrorResponse: utils.ErrorResponse{Code: utils.CodeNotFound, Message: "no document found"},
			Notification:  verification.VerificationFailed(),
		})
		return "", "", false
	}

	html, err := r.renderer.Render(query, result)
	if err != nil {
		r.writeError(c, err)
		return "", "", false
	}

	slog.InfoContext(ctx, "verification report rendered",
		"query", query,
		"type", result.Type,
		"document_type", result.DocumentType,
	)
	return html, report.FileName(query, result.VerifiedAt), true
}

func (r *VerificationRouter) writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, report.ErrIncompleteRecord):
		slog.WarnContext(ctx, "refusing to render incomplete record", "error", err)
		utils.WriteErrorCode(c, http.StatusUnprocessableEntity, utils.CodeUnprocessable, err.Error())
	case errors.Is(err, context.Canceled):
		slog.InfoContext(ctx, "verification abandoned by client", "path", c.FullPath())
		c.Abort()
	case errors.Is(err, context.DeadlineExceeded):
		utils.WriteErrorCode(c, http.StatusGatewayTimeout, utils.CodeUnavailable, "verification timed out")
	default:
		slog.ErrorContext(ctx, "verification request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		utils.WriteInternalError(c)
	}
}
