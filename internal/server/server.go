package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
	"github.com/adpablos/expense-tracker-backend/internal/processor"
)

// ExpenseWriter is the service surface the manual-expense endpoint uses.
type ExpenseWriter interface {
	Create(ctx context.Context, expense *entity.Expense) (*entity.Expense, error)
}

// ExpenseReader lists persisted expenses.
type ExpenseReader interface {
	ListByHousehold(ctx context.Context, householdID uuid.UUID, from, to *time.Time) ([]*entity.Expense, error)
}

// CategoryReader lists a household's taxonomy.
type CategoryReader interface {
	ListHierarchy(ctx context.Context, householdID uuid.UUID) ([]entity.CategoryWithSubcategories, error)
}

// HouseholdWriter creates households.
type HouseholdWriter interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*entity.Household, error)
}

// Exporter renders an expense workbook.
type Exporter interface {
	ExportExpensesXLSX(ctx context.Context, householdID uuid.UUID, from, to *time.Time) ([]byte, error)
}

// Server is the HTTP transport for the expense tracker.
type Server struct {
	httpServer *http.Server
	factory    *processor.Factory
	expenses   ExpenseWriter
	lister     ExpenseReader
	categories CategoryReader
	households HouseholdWriter
	exporter   Exporter
	logger     *slog.Logger
	maxUpload  int64
}

func New(cfg common.ServerConfig, factory *processor.Factory, expenses ExpenseWriter, lister ExpenseReader, categories CategoryReader, households HouseholdWriter, exporter Exporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		factory:    factory,
		expenses:   expenses,
		lister:     lister,
		categories: categories,
		households: households,
		exporter:   exporter,
		logger:     logger,
		maxUpload:  cfg.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/expenses/upload", s.handleUpload)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/households", s.handleCreateHousehold)
	mux.HandleFunc("GET /api/expenses/export", s.handleExport)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.withRequestLog(mux),
	}
	return s
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := uuid.New().String()
		start := time.Now()
		r = r.WithContext(common.WithRequestID(r.Context(), rid))
		next.ServeHTTP(w, r)
		s.logger.Debug("http.request",
			"req_id", rid,
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}
