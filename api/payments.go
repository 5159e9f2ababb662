package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service   payment.PaymentUseCase
	redirects config.PaymentConfig
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func NewPaymentHandler(service payment.PaymentUseCase, redirects config.PaymentConfig) *PaymentHandler {
	return &PaymentHandler{service: service, redirects: redirects}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/init-payment/:bookingId", h.initPayment)
	router.POST("/success", h.success)
	router.POST("/fail", h.fail)
	router.POST("/cancel", h.cancel)
	router.GET("/invoice/:paymentId", h.invoice)
}

func (h *PaymentHandler) initPayment(c *gin.Context) {
	result, err := h.service.InitPayment(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "Payment done successfully",
		Data:    result,
	})
}

func (h *PaymentHandler) success(c *gin.Context) {
	result, err := h.service.SuccessPayment(c.Request.Context(), c.Query("transactionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if result.Success {
		h.redirect(c, h.redirects.SuccessRedirectURL)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: result.Success, Message: result.Message})
}

func (h *PaymentHandler) fail(c *gin.Context) {
	if _, err := h.service.FailPayment(c.Request.Context(), c.Query("transactionId")); err != nil {
		writeError(c, err)
		return
	}
	h.redirect(c, h.redirects.FailRedirectURL)
}

func (h *PaymentHandler) cancel(c *gin.Context) {
	if _, err := h.service.CancelPayment(c.Request.Context(), c.Query("transactionId")); err != nil {
		writeError(c, err)
		return
	}
	h.redirect(c, h.redirects.CancelRedirectURL)
}

func (h *PaymentHandler) invoice(c *gin.Context) {
	invoiceURL, err := h.service.GetInvoiceDownloadURL(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Invoice download URL retrieved successfully",
		Data:    invoiceURL,
	})
}

// redirect sends the browser back to the frontend with the gateway's callback parameters.
func (h *PaymentHandler) redirect(c *gin.Context, target string) {
	query := url.Values{}
	query.Set("transactionId", c.Query("transactionId"))
	query.Set("amount", c.Query("amount"))
	query.Set("status", c.Query("status"))
	c.Redirect(http.StatusFound, target+"?"+query.Encode())
}

func writeError(c *gin.Context, err error) {
	message := "Something went wrong"
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(domain.StatusOf(err), envelope{Success: false, Message: message})
}
