// Package permissions defines the domain permission keys used by the
// authorization middleware. The source system's per-group permission
// registry (deterministic UUID per key, JSON permission arrays on a
// UserGroup row) is replaced by a flat two-tier model: admins hold every
// permission, sector users hold every permission except the admin-only
// ones (rules, sectors and users management; see IsAdminOnly). Limiting a
// sector user to their own sector is left to SectorMiddleware.RequireSector,
// which cmd/server mounts on no route.
package permissions

const (
	ForecastView   = "forecast.view"
	ForecastManage = "forecast.manage"

	DemandView   = "demand.view"
	DemandManage = "demand.manage"

	ScheduleView   = "schedule.view"
	ScheduleManage = "schedule.manage"

	AssignmentView   = "assignment.view"
	AssignmentManage = "assignment.manage"

	AgendaView   = "agenda.view"
	AgendaManage = "agenda.manage"

	ConvocationView   = "convocation.view"
	ConvocationManage = "convocation.manage"

	RulesView   = "rules.view"
	RulesManage = "rules.manage"

	SuggestionsView   = "suggestions.view"
	SuggestionsManage = "suggestions.manage"

	DatalakeIngest = "datalake.ingest"

	SectorsManage = "sectors.manage"
	UsersManage   = "users.manage"
)

// adminOnly holds permissions that require the global admin role even for
// an authenticated sector user.
var adminOnly = map[string]struct{}{
	RulesManage:   {},
	SectorsManage: {},
	UsersManage:   {},
}

// IsAdminOnly reports whether a permission key is restricted to admins.
func IsAdminOnly(key string) bool {
	_, ok := adminOnly[key]
	return ok
}

// All lists every permission key known to the system, used by the
// administrative permission listing endpoint.
func All() []string {
	return []string{
		ForecastView, ForecastManage,
		DemandView, DemandManage,
		ScheduleView, ScheduleManage,
		AssignmentView, AssignmentManage,
		AgendaView, AgendaManage,
		ConvocationView, ConvocationManage,
		RulesView, RulesManage,
		SuggestionsView, SuggestionsManage,
		DatalakeIngest,
		SectorsManage, UsersManage,
	}
}
