package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	ordercontroller "organicshop/internal/order/controller"
	paymentcontroller "organicshop/internal/payment/controller"
)

func NewRouter(orderCtrl *ordercontroller.OrderController, paymentCtrl *paymentcontroller.PaymentController, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", orderCtrl.Create)
		r.Get("/", orderCtrl.List)
		r.Post("/update-payment", orderCtrl.UpdatePayment)
		r.Get("/{id}", orderCtrl.GetByID)
		r.Put("/{id}/status", orderCtrl.UpdateStatus)
	})

	r.Route("/api/payment", func(r chi.Router) {
		r.Post("/create-order", paymentCtrl.CreateOrder)
		r.Post("/verify", paymentCtrl.Verify)
	})

	return r
}
