package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/account"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/form"
	"github.com/sufairath-nisar/assessment-aug5-2024/internal/submit"
)

// apiSignIn は POST /api/signin のハンドラーです。
func (h *handlers) apiSignIn(c *gin.Context) {
	var record form.SignIn
	if err := c.ShouldBindJSON(&record); err != nil {
		respondInvalidJSON(c)
		return
	}
	h.respondSubmit(c, form.NewController(&record), func(ctx context.Context) (*account.Outcome, error) {
		return h.accounts.SignIn(ctx, &record, "")
	})
}

// apiSignUp は POST /api/signup のハンドラーです。
func (h *handlers) apiSignUp(c *gin.Context) {
	var record form.SignUp
	if err := c.ShouldBindJSON(&record); err != nil {
		respondInvalidJSON(c)
		return
	}
	h.respondSubmit(c, form.NewController(&record), func(ctx context.Context) (*account.Outcome, error) {
		return h.accounts.SignUp(ctx, &record, "")
	})
}

func (h *handlers) respondSubmit(c *gin.Context, ctrl *form.Controller, send func(ctx context.Context) (*account.Outcome, error)) {
	var sendErr error
	ok := ctrl.Submit(c.Request.Context(), func(ctx context.Context) error {
		outcome, err := send(upstreamContext(ctx, c))
		if err != nil {
			sendErr = err
			return err
		}
		relayCookies(c, outcome)
		return nil
	})

	switch {
	case ok:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case !ctrl.Valid():
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":    "VALIDATION_FAILED",
			"message": "Please correct the highlighted fields.",
			"fields":  ctrl.Errors().Display(),
		})
	default:
		respondSubmitError(c, sendErr, ctrl.APIError())
	}
}

func respondSubmitError(c *gin.Context, err error, message string) {
	var submitErr *form.SubmitError
	switch {
	case errors.As(err, &submitErr) && submitErr.Message == submit.DuplicateMessage:
		c.JSON(http.StatusConflict, gin.H{
			"code":    "DUPLICATE_SUBMISSION",
			"message": message,
		})
	case errors.As(err, &submitErr):
		c.JSON(http.StatusConflict, gin.H{
			"code":    "NAME_CONFLICT",
			"message": message,
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    "UPSTREAM_ERROR",
			"message": message,
		})
	}
}

func respondInvalidJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "INVALID_INPUT",
		"message": "Send the form fields as a JSON object.",
	})
}
