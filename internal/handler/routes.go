package handler

import (
	"net/http"

	"github.com/Dan9191/cashcompass/internal/config"
	"github.com/Dan9191/cashcompass/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every endpoint of the API
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/forgot_password", h.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/reset_password", h.ResetPassword).Methods(http.MethodPost)

	// Protected routes
	authRouter := api.NewRoute().Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/financial_health", h.FinancialHealth).Methods(http.MethodGet)
	authRouter.HandleFunc("/financial_alerts_data", h.Alerts).Methods(http.MethodGet)
	authRouter.HandleFunc("/delete_alert", h.DismissAlert).Methods(http.MethodPost)
	authRouter.HandleFunc("/reset_alerts", h.ResetAlerts).Methods(http.MethodPost)
	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	authRouter.HandleFunc("/ai_advisor", h.Advisor).Methods(http.MethodPost)
	authRouter.HandleFunc("/change_password", h.ChangePassword).Methods(http.MethodPost)
	authRouter.HandleFunc("/delete_account", h.DeleteAccount).Methods(http.MethodPost)
	authRouter.HandleFunc("/profile", h.Profile).Methods(http.MethodGet)
	authRouter.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPut)
	authRouter.HandleFunc("/settings", h.Settings).Methods(http.MethodGet)
	authRouter.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)

	svc := h.svc
	crud(authRouter, "/income",
		listRecords(h, svc.ListIncome),
		createRecord(h, svc.CreateIncome),
		updateRecord(h, svc.UpdateIncome),
		deleteRecord(h, svc.DeleteIncome))
	crud(authRouter, "/expenses",
		listRecords(h, svc.ListExpenses),
		createRecord(h, svc.CreateExpense),
		updateRecord(h, svc.UpdateExpense),
		deleteRecord(h, svc.DeleteExpense))
	crud(authRouter, "/budgets",
		listRecords(h, svc.ListBudgets),
		createRecord(h, svc.CreateBudget),
		updateRecord(h, svc.UpdateBudget),
		deleteRecord(h, svc.DeleteBudget))
	crud(authRouter, "/savings",
		listRecords(h, svc.ListSavingsGoals),
		createRecord(h, svc.CreateSavingsGoal),
		updateRecord(h, svc.UpdateSavingsGoal),
		deleteRecord(h, svc.DeleteSavingsGoal))
	crud(authRouter, "/debt",
		listRecords(h, svc.ListDebts),
		createRecord(h, svc.CreateDebt),
		updateRecord(h, svc.UpdateDebt),
		deleteRecord(h, svc.DeleteDebt))

	return r
}

func crud(r *mux.Router, path string, list, create, update, remove http.HandlerFunc) {
	r.HandleFunc(path, list).Methods(http.MethodGet)
	r.HandleFunc(path, create).Methods(http.MethodPost)
	r.HandleFunc(path+"/{id:[0-9]+}", update).Methods(http.MethodPut)
	r.HandleFunc(path+"/{id:[0-9]+}", remove).Methods(http.MethodDelete)
}
