package controllers

import (
	"net/http"
	"strings"

	"github.com/akvaproffi/storefront/api/responses"
	"github.com/akvaproffi/storefront/api/validators"
	"github.com/akvaproffi/storefront/internal/paymentmethods"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createPaymentMethodRequest struct {
	Type       string `json:"type" validate:"required"`
	CardNumber string `json:"card_number" validate:"omitempty,max=23"`
	CardHolder string `json:"card_holder" validate:"omitempty,max=120"`
	CardExpiry string `json:"card_expiry" validate:"omitempty,len=7"`
	IsDefault  bool   `json:"is_default"`
}

func PaymentMethodsList(svc paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("payment methods"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		methods, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, methods)
	}
}

// PaymentMethodsCreate stores a method. Only the last four card digits are
// kept and the response carries the masked number.
func PaymentMethodsCreate(svc paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("payment methods"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createPaymentMethodRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := svc.Create(r.Context(), userID, paymentmethods.CreateInput{
			Type:       body.Type,
			CardNumber: strings.ReplaceAll(body.CardNumber, " ", ""),
			CardHolder: validators.SanitizeString(body.CardHolder, 120),
			CardExpiry: strings.TrimSpace(body.CardExpiry),
			IsDefault:  body.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, method)
	}
}

func PaymentMethodsDelete(svc paymentmethods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("payment methods"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method id"))
			return
		}
		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
