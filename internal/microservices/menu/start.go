package menu

import (
	"net/http"

	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/microservices/menu/handler"
	"restaurant-ordering/internal/microservices/menu/service"
)

func Mount(mux *http.ServeMux, catalog *domain.Catalog) {
	handler.Mount(mux, handler.NewMenuHandler(service.NewMenuService(catalog)))
}
