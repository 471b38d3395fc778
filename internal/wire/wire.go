package wire

import (
	"net/http"

	"lodgr/internal/adaptor"
	"lodgr/internal/data/repository"
	"lodgr/internal/notification"
	"lodgr/internal/usecase"
	"lodgr/pkg/middleware"
	"lodgr/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes from the shared dependencies.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	gw usecase.PaymentGateway,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, gw, dispatcher, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(chimw.StripSlashes)

	auth := middleware.AuthSession(repo.Session, logger)

	wireAuth(r, handler.Auth, auth)
	wireProperty(r, handler.Property, handler.Review, handler.Booking, auth)
	wireBooking(r, handler.Booking, handler.Payment, auth)
	wirePayment(r, handler.Payment, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
