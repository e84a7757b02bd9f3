package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mesikahq/clinic-desk/internal/appointment"
	"github.com/mesikahq/clinic-desk/internal/audit"
	"github.com/mesikahq/clinic-desk/internal/auth"
	"github.com/mesikahq/clinic-desk/internal/export"
	"github.com/mesikahq/clinic-desk/internal/patient"
	"github.com/mesikahq/clinic-desk/internal/reporting"
)

type Handler struct {
	authService        auth.Service
	patientService     patient.Service
	appointmentService appointment.Service
	reportingService   reporting.Service
	auditService       audit.Service
	exporter           *export.Exporter
	logger             *zap.Logger
}

func NewHandler(
	authService auth.Service,
	patientService patient.Service,
	appointmentService appointment.Service,
	reportingService reporting.Service,
	auditService audit.Service,
	exporter *export.Exporter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		authService:        authService,
		patientService:     patientService,
		appointmentService: appointmentService,
		reportingService:   reportingService,
		auditService:       auditService,
		exporter:           exporter,
		logger:             logger,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Authentication Handlers

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Login failed", zap.String("username", req.Username))
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Patient Handlers

// PatientRequest accepts age as either a JSON number or a string.
type PatientRequest struct {
	Name           string `json:"name"`
	Age            any    `json:"age"`
	Gender         string `json:"gender"`
	Insurance      string `json:"insurance"`
	MedicalHistory string `json:"medical_history"`
}

func (r PatientRequest) input() patient.Input {
	return patient.Input{
		Name:           r.Name,
		Age:            numberText(r.Age),
		Gender:         r.Gender,
		Insurance:      r.Insurance,
		MedicalHistory: r.MedicalHistory,
	}
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.patientService.Create(c.Request.Context(), req.input())
	if err != nil {
		if p != nil {
			// The patient is stored; only the audit write failed.
			h.logger.Error("Audit write failed after patient create", zap.String("patient_id", p.ID), zap.Error(err))
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.patientService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}

// ListPatients applies at most one filter. The first of name, age range,
// registration range or insurance present in the query wins.
func (h *Handler) ListPatients(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		patients []patient.Patient
		err      error
	)
	switch {
	case c.Query("name") != "":
		patients, err = h.patientService.SearchByName(ctx, c.Query("name"))
	case hasQuery(c, "min_age") || hasQuery(c, "max_age"):
		patients, err = h.patientService.FilterByAge(ctx, c.Query("min_age"), c.Query("max_age"))
	case hasQuery(c, "from") || hasQuery(c, "to"):
		patients, err = h.patientService.FilterByDateRange(ctx, c.Query("from"), c.Query("to"))
	case hasQuery(c, "insurance"):
		patients, err = h.patientService.FilterByInsurance(ctx, c.Query("insurance"))
	default:
		patients, err = h.patientService.List(ctx)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	if patients == nil {
		patients = []patient.Patient{}
	}
	c.JSON(http.StatusOK, gin.H{"data": patients, "count": len(patients)})
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.patientService.Update(c.Request.Context(), c.Param("id"), req.input()); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.patientService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

func (h *Handler) SuggestPatientNames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	names, err := h.appointmentService.SuggestPatientNames(c.Request.Context(), c.Query("prefix"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": names})
}

// Appointment Handlers

// AppointmentRequest accepts bill_amount as either a JSON number or a string.
type AppointmentRequest struct {
	PatientName      string `json:"patient_name"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	ConsultationType string `json:"consultation_type"`
	Reason           string `json:"reason"`
	BillAmount       any    `json:"bill_amount"`
}

func (r AppointmentRequest) input() appointment.ScheduleInput {
	return appointment.ScheduleInput{
		PatientName:      r.PatientName,
		Date:             r.Date,
		Time:             r.Time,
		ConsultationType: r.ConsultationType,
		Reason:           r.Reason,
		BillAmount:       numberText(r.BillAmount),
	}
}

func (h *Handler) ScheduleAppointment(c *gin.Context) {
	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appt, err := h.appointmentService.Schedule(c.Request.Context(), req.input())
	if err != nil {
		if appt != nil {
			h.logger.Error("Audit write failed after scheduling", zap.String("appointment_id", appt.ID), zap.Error(err))
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": appt})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	appt, err := h.appointmentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": appt})
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.appointmentService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if appointments == nil {
		appointments = []appointment.Appointment{}
	}
	c.JSON(http.StatusOK, gin.H{"data": appointments, "count": len(appointments)})
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	if err := h.appointmentService.Complete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment marked as completed"})
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	if err := h.appointmentService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

// Audit Handlers

func (h *Handler) GetAuditLogs(c *gin.Context) {
	limit := audit.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	entries, err := h.auditService.Recent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// Export Handlers

func (h *Handler) ExportCollection(c *gin.Context) {
	collection, err := export.ParseCollection(c.Param("collection"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.CSV)))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(c.Request.Context(), collection, format, &buf); err != nil {
		h.logger.Error("Export failed", zap.String("collection", string(collection)), zap.Error(err))
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", collection, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// numberText renders a decoded JSON number or string as form text.
func numberText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func hasQuery(c *gin.Context, key string) bool {
	_, ok := c.GetQuery(key)
	return ok
}
