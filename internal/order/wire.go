package order

import (
	"database/sql"

	"go.uber.org/zap"

	"organicshop/internal/order/controller"
	"organicshop/internal/order/repository"
	"organicshop/internal/order/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	orderSvc := service.NewOrderService(orderRepo, logger)
	return controller.NewOrderController(orderSvc, logger)
}
