package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"stayhub/internal/auth"
	"stayhub/internal/config"
	"stayhub/internal/service"
)

// Server wires the REST API: route registration, middleware chain,
// and lifecycle.
type Server struct {
	cfg    config.ServerConfig
	logger *zerolog.Logger
	tokens *auth.TokenManager

	users      *service.UserService
	properties *service.PropertyService
	bookings   *service.BookingService
	reviews    *service.ReviewService
	comments   *service.CommentService
	saved      *service.SavedPropertyService
	admin      *service.AdminService

	general *tierLimiter
	strict  *tierLimiter

	server *http.Server
}

type Services struct {
	Users      *service.UserService
	Properties *service.PropertyService
	Bookings   *service.BookingService
	Reviews    *service.ReviewService
	Comments   *service.CommentService
	Saved      *service.SavedPropertyService
	Admin      *service.AdminService
}

func NewServer(cfg config.ServerConfig, rateCfg config.RateLimitConfig, tokens *auth.TokenManager, svcs Services, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		tokens:     tokens,
		users:      svcs.Users,
		properties: svcs.Properties,
		bookings:   svcs.Bookings,
		reviews:    svcs.Reviews,
		comments:   svcs.Comments,
		saved:      svcs.Saved,
		admin:      svcs.Admin,
		general:    newTierLimiter("general", rateCfg.General),
		strict:     newTierLimiter("strict", rateCfg.Strict),
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeoutSec) * time.Second,
	}
	return s
}

// Routes builds the full router. Exposed for handler tests.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mux.MiddlewareFunc(s.general.middleware))

	// Auth.
	authR := api.PathPrefix("/auth").Subrouter()
	authR.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	authR.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	authR.Handle("/logout", s.requireAuth(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)
	authR.Handle("/me", s.requireAuth(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)
	authR.Handle("/verify", s.requireAuth(http.HandlerFunc(s.handleVerify))).Methods(http.MethodGet)

	// Users.
	usersR := api.PathPrefix("/users").Subrouter()
	usersR.Use(mux.MiddlewareFunc(s.requireAuth))
	usersR.HandleFunc("/{id:[0-9]+}", s.handleGetUser).Methods(http.MethodGet)
	usersR.HandleFunc("/{id:[0-9]+}", s.handleUpdateUser).Methods(http.MethodPut)
	usersR.HandleFunc("/{id:[0-9]+}", s.handleDeleteUser).Methods(http.MethodDelete)
	usersR.HandleFunc("/{id:[0-9]+}/password", s.handleChangePassword).Methods(http.MethodPut)
	usersR.HandleFunc("/{id:[0-9]+}/statistics", s.handleUserStatistics).Methods(http.MethodGet)

	// Properties: reads are public, writes live under /api/admin.
	propsR := api.PathPrefix("/properties").Subrouter()
	propsR.HandleFunc("", s.handleListProperties).Methods(http.MethodGet)
	propsR.HandleFunc("/featured", s.handleFeaturedProperties).Methods(http.MethodGet)
	propsR.HandleFunc("/{id:[0-9]+}", s.handleGetProperty).Methods(http.MethodGet)
	propsR.HandleFunc("/{id:[0-9]+}/availability", s.handleCheckAvailability).Methods(http.MethodGet)
	propsR.HandleFunc("/{id:[0-9]+}/rating", s.handlePropertyRating).Methods(http.MethodGet)
	propsR.Handle("/{id:[0-9]+}/reviews", s.optionalAuth(http.HandlerFunc(s.handlePropertyReviews))).Methods(http.MethodGet)
	propsR.Handle("/{id:[0-9]+}/comments", s.optionalAuth(http.HandlerFunc(s.handlePropertyComments))).Methods(http.MethodGet)

	// Bookings.
	bookingsR := api.PathPrefix("/bookings").Subrouter()
	bookingsR.Use(mux.MiddlewareFunc(s.requireAuth))
	bookingsR.Handle("", s.strict.middleware(http.HandlerFunc(s.handleCreateBooking))).Methods(http.MethodPost)
	bookingsR.HandleFunc("", s.handleListBookings).Methods(http.MethodGet)
	bookingsR.HandleFunc("/{id:[0-9]+}", s.handleGetBooking).Methods(http.MethodGet)
	bookingsR.HandleFunc("/{id:[0-9]+}/cancel", s.handleCancelBooking).Methods(http.MethodPut)

	// Reviews.
	reviewsR := api.PathPrefix("/reviews").Subrouter()
	reviewsR.Use(mux.MiddlewareFunc(s.requireAuth))
	reviewsR.Handle("", s.strict.middleware(http.HandlerFunc(s.handleCreateReview))).Methods(http.MethodPost)
	reviewsR.HandleFunc("/mine", s.handleMyReviews).Methods(http.MethodGet)
	reviewsR.HandleFunc("/{id:[0-9]+}", s.handleUpdateReview).Methods(http.MethodPut)
	reviewsR.HandleFunc("/{id:[0-9]+}", s.handleDeleteReview).Methods(http.MethodDelete)
	reviewsR.HandleFunc("/{id:[0-9]+}/helpful", s.handleMarkHelpful).Methods(http.MethodPost)

	// Comments.
	commentsR := api.PathPrefix("/comments").Subrouter()
	commentsR.Use(mux.MiddlewareFunc(s.requireAuth))
	commentsR.HandleFunc("", s.handleCreateComment).Methods(http.MethodPost)
	commentsR.HandleFunc("/mine", s.handleMyComments).Methods(http.MethodGet)
	commentsR.HandleFunc("/{id:[0-9]+}", s.handleUpdateComment).Methods(http.MethodPut)
	commentsR.HandleFunc("/{id:[0-9]+}", s.handleDeleteComment).Methods(http.MethodDelete)

	// Saved properties.
	savedR := api.PathPrefix("/saved-properties").Subrouter()
	savedR.Use(mux.MiddlewareFunc(s.requireAuth))
	savedR.HandleFunc("", s.handleSaveProperty).Methods(http.MethodPost)
	savedR.HandleFunc("", s.handleListSaved).Methods(http.MethodGet)
	savedR.HandleFunc("/count", s.handleSavedCount).Methods(http.MethodGet)
	savedR.HandleFunc("/{propertyID:[0-9]+}", s.handleIsSaved).Methods(http.MethodGet)
	savedR.HandleFunc("/{propertyID:[0-9]+}", s.handleUpdateSavedNotes).Methods(http.MethodPut)
	savedR.HandleFunc("/{propertyID:[0-9]+}", s.handleUnsaveProperty).Methods(http.MethodDelete)

	// Admin.
	adminR := api.PathPrefix("/admin").Subrouter()
	adminR.Use(mux.MiddlewareFunc(s.requireAuth), mux.MiddlewareFunc(s.requireAdmin))
	adminR.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	adminR.HandleFunc("/users", s.handleAdminListUsers).Methods(http.MethodGet)
	adminR.HandleFunc("/users/{id:[0-9]+}/status", s.handleAdminUserStatus).Methods(http.MethodPut)
	adminR.HandleFunc("/create-admin", s.handleAdminCreateAdmin).Methods(http.MethodPost)
	adminR.HandleFunc("/properties", s.handleAdminCreateProperty).Methods(http.MethodPost)
	adminR.HandleFunc("/properties/{id:[0-9]+}", s.handleAdminUpdateProperty).Methods(http.MethodPut)
	adminR.HandleFunc("/properties/{id:[0-9]+}", s.handleAdminDeleteProperty).Methods(http.MethodDelete)
	adminR.HandleFunc("/properties/{id:[0-9]+}/stats", s.handleAdminPropertyStats).Methods(http.MethodGet)
	adminR.HandleFunc("/bookings", s.handleAdminListBookings).Methods(http.MethodGet)
	adminR.HandleFunc("/bookings/stats", s.handleAdminBookingStats).Methods(http.MethodGet)
	adminR.HandleFunc("/bookings/{id:[0-9]+}/status", s.handleAdminBookingStatus).Methods(http.MethodPut)
	adminR.HandleFunc("/bookings/export", s.handleAdminExportBookings).Methods(http.MethodGet)
	adminR.HandleFunc("/reviews", s.handleAdminListReviews).Methods(http.MethodGet)
	adminR.HandleFunc("/reviews/stats", s.handleAdminReviewStats).Methods(http.MethodGet)
	adminR.HandleFunc("/reviews/{id:[0-9]+}/status", s.handleAdminReviewStatus).Methods(http.MethodPut)
	adminR.HandleFunc("/comments/stats", s.handleAdminCommentStats).Methods(http.MethodGet)
	adminR.HandleFunc("/comments/{id:[0-9]+}/status", s.handleAdminCommentStatus).Methods(http.MethodPut)
	adminR.HandleFunc("/backup", s.handleAdminBackup).Methods(http.MethodPost)
	adminR.HandleFunc("/health", s.handleAdminHealth).Methods(http.MethodGet)

	return s.recoverMiddleware(s.loggingMiddleware(r))
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
