package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "autopecas/internal/errors"
	applog "autopecas/internal/log"
)

const msgSomethingWrong = "Something went wrong. Please try again."

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	return c.Render(tmpl, data)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorHandler turns handler errors into {"error": {code, message, details}}
// for the API and the not-found page elsewhere. Internal causes never reach
// the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	out := toAPIError(err)
	meta := apperrors.MetadataFor(apperrors.Code(out.Code))
	status := meta.HTTPStatus

	var fe *fiber.Error
	if apperrors.As(err) == nil && errors.As(err, &fe) {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, map[string]any{"code": out.Code})
	}

	if !strings.HasPrefix(c.Path(), "/api/") {
		msg := out.Message
		if status >= fiber.StatusInternalServerError {
			msg = msgSomethingWrong
		}
		if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
			return c.Status(status).SendString(msg)
		}
		return nil
	}
	return c.Status(status).JSON(fiber.Map{"error": out})
}

func toAPIError(err error) apiError {
	if typed := apperrors.As(err); typed != nil {
		meta := apperrors.MetadataFor(typed.Code())
		out := apiError{Code: string(typed.Code()), Message: meta.PublicMessage}
		if meta.HTTPStatus < fiber.StatusInternalServerError && typed.Message() != "" {
			out.Message = typed.Message()
		}
		if meta.DetailsAllowed {
			out.Details = typed.Details()
		}
		return out
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return apiError{Code: fiberCode(fe.Code), Message: strings.ToLower(fe.Message)}
	}
	return apiError{Code: string(apperrors.CodeInternal), Message: msgSomethingWrong}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return string(apperrors.CodeNotFound)
	case fiber.StatusUnauthorized:
		return string(apperrors.CodeUnauthorized)
	case fiber.StatusForbidden:
		return string(apperrors.CodeForbidden)
	case fiber.StatusConflict:
		return string(apperrors.CodeConflict)
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	return string(apperrors.CodeValidation)
}
