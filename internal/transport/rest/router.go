package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/frahmantamala/reimbursement-tracker/internal/auth"
	"github.com/frahmantamala/reimbursement-tracker/internal/bill"
	"github.com/frahmantamala/reimbursement-tracker/internal/department"
	"github.com/frahmantamala/reimbursement-tracker/internal/employee"
	"github.com/frahmantamala/reimbursement-tracker/internal/transport/middleware"
	"github.com/frahmantamala/reimbursement-tracker/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, departmentHandler *department.Handler, employeeHandler *employee.Handler, billHandler *bill.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler == nil {
			return
		}

		// Everything below requires an authenticated principal. Role checks
		// live in the services, which receive the principal explicitly.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			if departmentHandler != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.Post("/", departmentHandler.CreateDepartment)
					dr.Get("/", departmentHandler.ListDepartments)
					dr.Get("/{id}", departmentHandler.GetDepartment)
					dr.Put("/{id}", departmentHandler.UpdateDepartment)
					dr.Delete("/{id}", departmentHandler.DeleteDepartment)
				})
			}

			if employeeHandler != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Post("/", employeeHandler.CreateEmployee)
					er.Get("/", employeeHandler.ListEmployees)
					er.Get("/{id}", employeeHandler.GetEmployee)
					er.Put("/{id}", employeeHandler.UpdateEmployee)
					er.Delete("/{id}", employeeHandler.DeleteEmployee)
					er.Post("/{id}/user", employeeHandler.ProvisionUser)
					er.Get("/{id}/totals", employeeHandler.GetTotals)
				})
			}

			if billHandler != nil {
				pr.Route("/bills", func(br chi.Router) {
					br.Post("/", billHandler.CreateBill)
					br.Get("/", billHandler.ListBills)
					br.Get("/{id}", billHandler.GetBill)
					br.Patch("/{id}/approve", billHandler.ApproveBill)
					br.Patch("/{id}/reject", billHandler.RejectBill)
					br.Patch("/{id}/revoke-approval", billHandler.RevokeApproval)
					br.Patch("/{id}/revoke-rejection", billHandler.RevokeRejection)
				})
			}
		})
	})
}
