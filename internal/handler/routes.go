package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/hotelops/roster/internal/auth"
	"github.com/hotelops/roster/internal/middleware"
	"github.com/hotelops/roster/internal/permissions"
)

func RegisterAuthRoutes(r chi.Router, h *AuthHandler, jwtManager *auth.JWTManager, devMode bool) {
	r.Route("/auth", func(r chi.Router) {
		if devMode {
			r.Get("/dev/login", h.DevLogin)
		}
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtManager))
			r.Post("/refresh", h.Refresh)
			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
		})
	})
}

func RegisterUserRoutes(r chi.Router, h *UserHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/users", func(r chi.Router) {
		if authz == nil {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			return
		}
		r.With(authz.RequirePermission(permissions.UsersManage)).Get("/", h.List)
		r.With(authz.RequirePermission(permissions.UsersManage)).Post("/", h.Create)
		r.With(authz.RequireSelfOrPermission("id", permissions.UsersManage)).Get("/{id}", h.Get)
		r.With(authz.RequireSelfOrPermission("id", permissions.UsersManage)).Patch("/{id}", h.Update)
		r.With(authz.RequirePermission(permissions.UsersManage)).Delete("/{id}", h.Delete)
	})
}

func RegisterSectorRoutes(r chi.Router, h *SectorHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/sectors", func(r chi.Router) {
		if authz == nil {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Get("/{id}/operational-parameters", h.GetOperationalParameters)
			r.Put("/{id}/operational-parameters", h.UpsertOperationalParameters)
			return
		}
		r.With(authz.RequirePermission(permissions.SectorsManage)).Get("/", h.List)
		r.With(authz.RequirePermission(permissions.SectorsManage)).Post("/", h.Create)
		r.With(authz.RequirePermission(permissions.SectorsManage)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.SectorsManage)).Patch("/{id}", h.Update)
		r.With(authz.RequirePermission(permissions.SectorsManage)).Delete("/{id}", h.Delete)
		r.With(authz.RequirePermission(permissions.SectorsManage)).Get("/{id}/operational-parameters", h.GetOperationalParameters)
		r.With(authz.RequirePermission(permissions.SectorsManage)).Put("/{id}/operational-parameters", h.UpsertOperationalParameters)
	})
}

func RegisterEmployeeRoutes(r chi.Router, h *EmployeeHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/employees", func(r chi.Router) {
		if authz == nil {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			return
		}
		r.With(authz.RequirePermission(permissions.ScheduleView)).Get("/", h.List)
		r.With(authz.RequirePermission(permissions.ScheduleManage)).Post("/", h.Create)
		r.With(authz.RequirePermission(permissions.ScheduleView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.ScheduleManage)).Patch("/{id}", h.Update)
		r.With(authz.RequirePermission(permissions.ScheduleManage)).Delete("/{id}", h.Delete)
	})
}

func RegisterActivityRoutes(r chi.Router, h *ActivityHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/activities", func(r chi.Router) {
		if authz == nil {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			return
		}
		r.With(authz.RequirePermission(permissions.DemandView)).Get("/", h.List)
		r.With(authz.RequirePermission(permissions.DemandManage)).Post("/", h.Create)
		r.With(authz.RequirePermission(permissions.DemandView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.DemandManage)).Patch("/{id}", h.Update)
		r.With(authz.RequirePermission(permissions.DemandManage)).Delete("/{id}", h.Delete)
	})
}

func RegisterRuleRoutes(r chi.Router, h *RuleHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/rules", func(r chi.Router) {
		if authz == nil {
			r.Get("/", h.List)
			r.Get("/constraints", h.GetConstraints)
			r.Post("/", h.Create)
			r.Post("/validate", h.Validate)
			r.Post("/reorder", h.Reorder)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			return
		}
		r.With(authz.RequirePermission(permissions.RulesView)).Get("/", h.List)
		r.With(authz.RequirePermission(permissions.RulesView)).Get("/constraints", h.GetConstraints)
		r.With(authz.RequirePermission(permissions.RulesManage)).Post("/", h.Create)
		r.With(authz.RequirePermission(permissions.RulesView)).Post("/validate", h.Validate)
		r.With(authz.RequirePermission(permissions.RulesManage)).Post("/reorder", h.Reorder)
		r.With(authz.RequirePermission(permissions.RulesView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.RulesManage)).Patch("/{id}", h.Update)
	})
}

func RegisterCalendarRoutes(r chi.Router, h *CalendarHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/calendar", func(r chi.Router) {
		if authz == nil {
			r.Post("/events", h.Create)
			r.Get("/factors", h.GetFactors)
			return
		}
		r.With(authz.RequirePermission(permissions.RulesManage)).Post("/events", h.Create)
		r.With(authz.RequirePermission(permissions.RulesView)).Get("/factors", h.GetFactors)
	})
}

func RegisterStatsRoutes(r chi.Router, h *StatsHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/stats", func(r chi.Router) {
		if authz == nil {
			r.Post("/weekday-bias", h.UpdateWeekdayBias)
			r.Post("/weekday-bias/bootstrap", h.BootstrapWeekdayBias)
			r.Post("/hourly-distribution", h.UpdateHourlyDistribution)
			return
		}
		r.With(authz.RequirePermission(permissions.DatalakeIngest)).Post("/weekday-bias", h.UpdateWeekdayBias)
		r.With(authz.RequirePermission(permissions.DatalakeIngest)).Post("/weekday-bias/bootstrap", h.BootstrapWeekdayBias)
		r.With(authz.RequirePermission(permissions.DatalakeIngest)).Post("/hourly-distribution", h.UpdateHourlyDistribution)
	})
}

func RegisterForecastRoutes(r chi.Router, h *ForecastHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/forecasts", func(r chi.Router) {
		if authz == nil {
			r.Get("/prerequisites", h.CheckPrerequisites)
			r.Post("/baseline", h.CreateBaseline)
			r.Post("/daily-update", h.CreateDailyUpdate)
			r.Get("/compare", h.Compare)
			r.Get("/executive-summary", h.ExecutiveSummary)
			r.Get("/executive-summary.xlsx", h.ExecutiveSummaryXLSX)
			r.Get("/{id}", h.Get)
			r.Post("/{id}/lock", h.Lock)
			r.Get("/{id}/error", h.ForecastError)
			return
		}
		r.With(authz.RequirePermission(permissions.ForecastView)).Get("/prerequisites", h.CheckPrerequisites)
		r.With(authz.RequirePermission(permissions.ForecastManage)).Post("/baseline", h.CreateBaseline)
		r.With(authz.RequirePermission(permissions.ForecastManage)).Post("/daily-update", h.CreateDailyUpdate)
		r.With(authz.RequirePermission(permissions.ForecastView)).Get("/compare", h.Compare)
		r.With(authz.RequirePermission(permissions.ForecastView)).Get("/executive-summary", h.ExecutiveSummary)
		r.With(authz.RequirePermission(permissions.ForecastView)).Get("/executive-summary.xlsx", h.ExecutiveSummaryXLSX)
		r.With(authz.RequirePermission(permissions.ForecastView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.ForecastManage)).Post("/{id}/lock", h.Lock)
		r.With(authz.RequirePermission(permissions.ForecastView)).Get("/{id}/error", h.ForecastError)
	})
}

func RegisterDemandRoutes(r chi.Router, h *DemandHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/demand", func(r chi.Router) {
		if authz == nil {
			r.Post("/compute", h.Compute)
			r.Get("/runs/{id}", h.ListByRun)
			return
		}
		r.With(authz.RequirePermission(permissions.DemandManage)).Post("/compute", h.Compute)
		r.With(authz.RequirePermission(permissions.DemandView)).Get("/runs/{id}", h.ListByRun)
	})
}

func RegisterSchedulerRoutes(r chi.Router, h *SchedulerHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/schedule-plans", func(r chi.Router) {
		if authz == nil {
			r.Post("/", h.GeneratePlan)
			r.Post("/adjustment", h.GenerateAdjustment)
			r.Get("/{id}", h.Get)
			r.Get("/{id}/validate-legal", h.ValidateLegal)
			r.Get("/{id}/convocation-preview", h.ConvocationPreview)
			r.Get("/{id}/export.xlsx", h.ExportXLSX)
			r.Post("/{id}/override-headcount", h.OverrideHeadcount)
			return
		}
		r.With(authz.RequirePermission(permissions.ScheduleManage)).Post("/", h.GeneratePlan)
		r.With(authz.RequirePermission(permissions.ScheduleManage)).Post("/adjustment", h.GenerateAdjustment)
		r.With(authz.RequirePermission(permissions.ScheduleView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.ScheduleView)).Get("/{id}/validate-legal", h.ValidateLegal)
		r.With(authz.RequirePermission(permissions.ScheduleView)).Get("/{id}/convocation-preview", h.ConvocationPreview)
		r.With(authz.RequirePermission(permissions.ScheduleView)).Get("/{id}/export.xlsx", h.ExportXLSX)
		r.With(authz.RequirePermission(permissions.ScheduleManage)).Post("/{id}/override-headcount", h.OverrideHeadcount)
	})
}

func RegisterAssignmentRoutes(r chi.Router, h *AssignmentHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/assignments", func(r chi.Router) {
		if authz == nil {
			r.Post("/", h.Assign)
			return
		}
		r.With(authz.RequirePermission(permissions.AssignmentManage)).Post("/", h.Assign)
	})
}

func RegisterAgendaRoutes(r chi.Router, h *AgendaHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/agendas", func(r chi.Router) {
		if authz == nil {
			r.Post("/", h.Generate)
			r.Get("/plans/{id}", h.ListByPlan)
			r.Get("/{id}", h.Get)
			r.Get("/{id}/export.pdf", h.ExportPDF)
			return
		}
		r.With(authz.RequirePermission(permissions.AgendaManage)).Post("/", h.Generate)
		r.With(authz.RequirePermission(permissions.AgendaView)).Get("/plans/{id}", h.ListByPlan)
		r.With(authz.RequirePermission(permissions.AgendaView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.AgendaView)).Get("/{id}/export.pdf", h.ExportPDF)
	})
}

func RegisterConvocationRoutes(r chi.Router, h *ConvocationHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/convocations", func(r chi.Router) {
		if authz == nil {
			r.Post("/", h.Create)
			r.Post("/sweep-expired", h.SweepExpired)
			r.Get("/slots/{id}", h.ListBySlot)
			r.Get("/weekly-summary.pdf", h.ExportWeeklySummaryPDF)
			r.Get("/{id}", h.Get)
			r.Post("/{id}/accept", h.Accept)
			r.Post("/{id}/decline", h.Decline)
			r.Post("/{id}/cancel", h.Cancel)
			return
		}
		r.With(authz.RequirePermission(permissions.ConvocationManage)).Post("/", h.Create)
		r.With(authz.RequirePermission(permissions.ConvocationManage)).Post("/sweep-expired", h.SweepExpired)
		r.With(authz.RequirePermission(permissions.ConvocationView)).Get("/slots/{id}", h.ListBySlot)
		r.With(authz.RequirePermission(permissions.ConvocationView)).Get("/weekly-summary.pdf", h.ExportWeeklySummaryPDF)
		r.With(authz.RequirePermission(permissions.ConvocationView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.ConvocationManage)).Post("/{id}/accept", h.Accept)
		r.With(authz.RequirePermission(permissions.ConvocationManage)).Post("/{id}/decline", h.Decline)
		r.With(authz.RequirePermission(permissions.ConvocationManage)).Post("/{id}/cancel", h.Cancel)
	})
}

func RegisterSuggestionRoutes(r chi.Router, h *SuggestionHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/suggestions", func(r chi.Router) {
		if authz == nil {
			r.Post("/compare-to-baseline", h.CompareToBaseline)
			r.Post("/emit-daily", h.EmitDailySuggestions)
			r.Get("/open", h.ListOpenBySectorAndDate)
			r.Get("/replan/baseline/{id}", h.ListReplanByBaseline)
			r.Post("/replan/{id}/decide", h.DecideReplan)
			r.Post("/daily/{id}/decide", h.DecideDailySuggestion)
			return
		}
		r.With(authz.RequirePermission(permissions.SuggestionsManage)).Post("/compare-to-baseline", h.CompareToBaseline)
		r.With(authz.RequirePermission(permissions.SuggestionsManage)).Post("/emit-daily", h.EmitDailySuggestions)
		r.With(authz.RequirePermission(permissions.SuggestionsView)).Get("/open", h.ListOpenBySectorAndDate)
		r.With(authz.RequirePermission(permissions.SuggestionsView)).Get("/replan/baseline/{id}", h.ListReplanByBaseline)
		r.With(authz.RequirePermission(permissions.SuggestionsManage)).Post("/replan/{id}/decide", h.DecideReplan)
		r.With(authz.RequirePermission(permissions.SuggestionsManage)).Post("/daily/{id}/decide", h.DecideDailySuggestion)
	})
}

func RegisterAgentRunRoutes(r chi.Router, h *AgentRunHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/agent-runs", func(r chi.Router) {
		if authz == nil {
			r.Get("/{id}", h.Get)
			r.Get("/subjects/{id}", h.ListBySubject)
			return
		}
		r.With(authz.RequirePermission(permissions.RulesView)).Get("/{id}", h.Get)
		r.With(authz.RequirePermission(permissions.RulesView)).Get("/subjects/{id}", h.ListBySubject)
	})
}

func RegisterDatalakeRoutes(r chi.Router, h *DatalakeHandler, authz *middleware.AuthorizationMiddleware) {
	r.Route("/datalake", func(r chi.Router) {
		if authz == nil {
			r.Post("/occupancy", h.IngestOccupancy)
			r.Post("/frontdesk-events", h.IngestFrontdeskEvent)
			return
		}
		r.With(authz.RequirePermission(permissions.DatalakeIngest)).Post("/occupancy", h.IngestOccupancy)
		r.With(authz.RequirePermission(permissions.DatalakeIngest)).Post("/frontdesk-events", h.IngestFrontdeskEvent)
	})
}
