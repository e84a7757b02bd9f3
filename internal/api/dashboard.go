package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard Handlers

func (h *Handler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reportingService.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (h *Handler) GetGenderBreakdown(c *gin.Context) {
	respond(c, h, func() (any, error) { return h.reportingService.GenderBreakdown(c.Request.Context()) })
}

func (h *Handler) GetAgeHistogram(c *gin.Context) {
	respond(c, h, func() (any, error) { return h.reportingService.AgeHistogram(c.Request.Context()) })
}

func (h *Handler) GetInsuranceBreakdown(c *gin.Context) {
	respond(c, h, func() (any, error) { return h.reportingService.InsuranceBreakdown(c.Request.Context()) })
}

func (h *Handler) GetAppointmentsByMonth(c *gin.Context) {
	respond(c, h, func() (any, error) { return h.reportingService.AppointmentsByMonth(c.Request.Context()) })
}

func (h *Handler) GetRegistrationsByMonth(c *gin.Context) {
	respond(c, h, func() (any, error) { return h.reportingService.RegistrationsByMonth(c.Request.Context()) })
}

func (h *Handler) GetRevenueByType(c *gin.Context) {
	respond(c, h, func() (any, error) { return h.reportingService.RevenueByConsultationType(c.Request.Context()) })
}

func respond(c *gin.Context, h *Handler, load func() (any, error)) {
	data, err := load()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}
