package services

import apperrors "autopecas/internal/errors"

var (
	ErrBadCreds           = apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
	ErrUnauthenticated    = apperrors.New(apperrors.CodeUnauthorized, "login required").WithDetails(map[string]string{"redirect": "/auth"})
	ErrPurchaseForbidden  = apperrors.New(apperrors.CodeForbidden, "administrators cannot purchase products")
	ErrEmptyCart          = apperrors.New(apperrors.CodeStateConflict, "cart is empty").WithDetails(map[string]string{"redirect": "/catalog"})
	ErrCheckoutInProgress = apperrors.New(apperrors.CodeConflict, "a checkout is already in progress")
	ErrProductNotFound    = apperrors.New(apperrors.CodeNotFound, "product not found")
	ErrOrderNotFound      = apperrors.New(apperrors.CodeNotFound, "order not found")
)
