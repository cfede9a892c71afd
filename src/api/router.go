package api

import (
	"github.com/YukichiOhno/expense-tracker/src/handlers"
	"github.com/YukichiOhno/expense-tracker/src/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(d *handlers.Deps, frontendURL string, readOnly bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(frontendURL))
	r.Use(middleware.ReadOnlyMiddleware(readOnly))

	r.Get("/health", handlers.Health(d))

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/sign-up", handlers.SignUp(d))
		r.Post("/user/login", handlers.Login(d))
		r.Post("/user/logout", handlers.Logout(d))
		r.Get("/user/verify-token", handlers.VerifyToken(d))
		r.Get("/user/no-token", handlers.NoToken(d))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(d.Tokens)).Group(func(r chi.Router) {
			// User
			r.Get("/user/user-information/{user_number}", handlers.GetUserInformation(d))
			r.Put("/user/change-password/{user_number}", handlers.ChangePassword(d))
			r.Put("/user/change-username/{user_number}", handlers.ChangeUsername(d))
			r.Put("/user/change-information/{user_number}", handlers.ChangeInformation(d))
			r.Put("/user/disable-user/{user_number}", handlers.DisableUser(d))

			// Budget
			r.Post("/budget", handlers.CreateBudget(d))
			r.Post("/budget/", handlers.CreateBudget(d))
			r.Get("/budget/{user_number}", handlers.GetAllBudgetsForUser(d))
			r.Put("/budget/{user_number}/{budget_number}", handlers.UpdateBudget(d))
			r.Delete("/budget/{user_number}/{budget_number}", handlers.DeleteBudget(d))

			// Expense
			r.Post("/expense", handlers.CreateExpense(d))
			r.Post("/expense/", handlers.CreateExpense(d))
			r.Get("/expense/summary/{user_number}", handlers.GetExpenseSummary(d))
			r.Get("/expense/{user_number}", handlers.GetAllExpensesForUser(d))
			r.Put("/expense/{user_number}/{expense_number}", handlers.UpdateExpense(d))

			// Setting
			r.Get("/setting/{user_number}", handlers.GetSetting(d))
			r.Put("/setting/{user_number}", handlers.UpdateSetting(d))

			// Currency
			r.Get("/currency", handlers.GetAllCurrencies(d))
			r.Get("/currency/", handlers.GetAllCurrencies(d))
		})
	})

	return r
}
