package payment

import (
	"database/sql"

	"go.uber.org/zap"

	"organicshop/internal/config"
	"organicshop/internal/order/repository"
	"organicshop/internal/payment/controller"
	"organicshop/internal/payment/gateway"
	"organicshop/internal/payment/service"
)

func NewModule(db *sql.DB, cfg config.RazorpayConfig, logger *zap.Logger) *controller.PaymentController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	gw := gateway.NewRazorpayGateway(cfg.KeyID, cfg.KeySecret)
	paymentSvc := service.NewPaymentService(gw, orderRepo, cfg.KeyID, cfg.KeySecret, logger)
	return controller.NewPaymentController(paymentSvc, logger)
}
