package internal

import (
	"net/http"
	"telemetryd/internal/controllers"
	"telemetryd/internal/providers"
)

func InitRoutes(optinController *controllers.OptinController, apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/admin/notices", http.HandlerFunc(optinController.Notices))
	routers.Post("/admin/notices/dismiss", http.HandlerFunc(optinController.Dismiss))
	routers.Get("/telemetry/preview", http.HandlerFunc(apiController.Preview))
	return routers
}
