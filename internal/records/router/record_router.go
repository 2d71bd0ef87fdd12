package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LACRA/agritrace360/internal/records/model"
	"github.com/LACRA/agritrace360/internal/records/service"
	"github.com/LACRA/agritrace360/utils"
)

type RecordRouter struct {
	rs *service.RecordService
}

func NewRecordRouter(rs *service.RecordService) *RecordRouter {
	return &RecordRouter{rs: rs}
}

// Register mounts the record endpoints on g. Writes and the dashboard go
// through protect.
func (r *RecordRouter) Register(g *gin.RouterGroup, protect gin.HandlerFunc) {
	g.GET("/certifications", r.HandleListCertifications)
	g.GET("/commodities", r.HandleListCommodities)
	g.GET("/reports", r.HandleListReports)

	g.POST("/certifications", protect, r.HandleCreateCertification)
	g.POST("/commodities", protect, r.HandleCreateCommodity)
	g.POST("/reports", protect, r.HandleCreateReport)
	g.GET("/dashboard/summary", protect, r.HandleGetSummary)
}

// HandleListCertifications handles GET /api/certifications
// Optional Query Filters: offset, limit
func (r *RecordRouter) HandleListCertifications(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := r.rs.ListCertifications(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleListCommodities handles GET /api/commodities
func (r *RecordRouter) HandleListCommodities(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := r.rs.ListCommodities(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleListReports handles GET /api/reports
func (r *RecordRouter) HandleListReports(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := r.rs.ListReports(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleCreateCertification handles POST /api/certifications
// Request body: CreateCertificationDTO
func (r *RecordRouter) HandleCreateCertification(c *gin.Context) {
	var req model.CreateCertificationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.WriteErrorCode(c, http.StatusBadRequest, utils.CodeInvalidArgument, "invalid request body: "+err.Error())
		return
	}
	cert, err := r.rs.CreateCertification(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

// HandleCreateCommodity handles POST /api/commodities
// Request body: CreateCommodityDTO
func (r *RecordRouter) HandleCreateCommodity(c *gin.Context) {
	var req model.CreateCommodityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.WriteErrorCode(c, http.StatusBadRequest, utils.CodeInvalidArgument, "invalid request body: "+err.Error())
		return
	}
	commodity, err := r.rs.CreateCommodity(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commodity)
}

// HandleCreateReport handles POST /api/reports
// Request body: CreateReportDTO
func (r *RecordRouter) HandleCreateReport(c *gin.Context) {
	var req model.CreateReportDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.WriteErrorCode(c, http.StatusBadRequest, utils.CodeInvalidArgument, "invalid request body: "+err.Error())
		return
	}
	report, err := r.rs.CreateReport(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// HandleGetSummary handles GET /api/dashboard/summary
func (r *RecordRouter) HandleGetSummary(c *gin.Context) {
	summary, err := r.rs.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func listFilter(c *gin.Context) (model.ListFilter, bool) {
	offset, limit, ok := utils.ParsePaginationQuery(c)
	if !ok {
		return model.ListFilter{}, false
	}
	return model.ListFilter{Offset: offset, Limit: limit}, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRecord):
		utils.WriteErrorCode(c, http.StatusBadRequest, utils.CodeInvalidArgument, err.Error())
	case errors.Is(err, service.ErrDuplicateRecord):
		utils.WriteErrorCode(c, http.StatusConflict, utils.CodeConflict, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "record request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		utils.WriteInternalError(c)
	}
}
