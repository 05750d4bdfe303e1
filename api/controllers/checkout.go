package controllers

import (
	"net/http"

	"github.com/akvaproffi/storefront/api/responses"
	"github.com/akvaproffi/storefront/internal/checkout"
	"github.com/akvaproffi/storefront/pkg/logger"
)

// CheckoutPlaceOrder turns the stored account cart into an order.
func CheckoutPlaceOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("checkout"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
