package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hotelops/roster/internal/auth"
	"github.com/hotelops/roster/internal/model"
)

type contextKey string

const (
	SectorContextKey contextKey = "sector_id"
	// SectorParamsContextKey carries the sector's operational parameters,
	// resolved once by RequireSector so every handler downstream of it
	// doesn't re-query them to know room counts, buffer/utilization
	// targets, or lunch-window rules for the acting sector.
	SectorParamsContextKey contextKey = "sector_operational_parameters"
)

// SectorService defines the interface for sector operations needed by
// middleware. Unlike a SaaS tenant, a sector only becomes usable once its
// operational parameters (room count, shift/lunch constants, turnover and
// arrival fallbacks) have been configured — GeneratePlan, GenerateAdjustment
// and the Demand Engine all hard-require that row. RequireSector enforces
// that precondition up front instead of letting every engine discover a
// missing row as a 500 mid-calculation.
type SectorService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sector, error)
	GetOperationalParameters(ctx context.Context, sectorID uuid.UUID) (*model.SectorOperationalParameters, error)
}

// UserSectorChecker checks whether a user has access to a sector.
type UserSectorChecker interface {
	UserHasAccess(ctx context.Context, userID, sectorID uuid.UUID) (bool, error)
}

type SectorMiddleware struct {
	sectorService     SectorService
	userSectorChecker UserSectorChecker
}

func NewSectorMiddleware(ss SectorService, usc UserSectorChecker) *SectorMiddleware {
	return &SectorMiddleware{sectorService: ss, userSectorChecker: usc}
}

// SectorFromContext extracts sector ID from context.
func SectorFromContext(ctx context.Context) (uuid.UUID, bool) {
	sectorID, ok := ctx.Value(SectorContextKey).(uuid.UUID)
	return sectorID, ok
}

// SectorParamsFromContext extracts the operational parameters resolved by
// RequireSector, so handlers that need them (schedule generation, demand
// calculation) don't issue a second query for what RequireSector already
// loaded and validated.
func SectorParamsFromContext(ctx context.Context) (*model.SectorOperationalParameters, bool) {
	params, ok := ctx.Value(SectorParamsContextKey).(*model.SectorOperationalParameters)
	return params, ok
}

// RequireSector middleware extracts the sector from the X-Sector-ID header,
// verifies it is active and operationally configured, and verifies the
// authenticated user may act on it.
func (m *SectorMiddleware) RequireSector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sectorID uuid.UUID
		var err error

		sectorIDStr := r.Header.Get("X-Sector-ID")
		if sectorIDStr != "" {
			sectorID, err = uuid.Parse(sectorIDStr)
			if err != nil {
				http.Error(w, "invalid sector ID", http.StatusBadRequest)
				return
			}
		} else {
			http.Error(w, "sector ID required", http.StatusBadRequest)
			return
		}

		sector, err := m.sectorService.GetByID(r.Context(), sectorID)
		if err != nil {
			http.Error(w, "sector not found", http.StatusUnauthorized)
			return
		}
		if !sector.IsActive {
			http.Error(w, "sector is inactive", http.StatusForbidden)
			return
		}

		if m.userSectorChecker != nil {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			hasAccess, err := m.userSectorChecker.UserHasAccess(r.Context(), user.ID, sectorID)
			if err != nil {
				http.Error(w, "failed to check sector access", http.StatusInternalServerError)
				return
			}
			if !hasAccess {
				http.Error(w, "access denied for this sector", http.StatusForbidden)
				return
			}
		}

		params, err := m.sectorService.GetOperationalParameters(r.Context(), sectorID)
		if err != nil {
			http.Error(w, "sector has no operational parameters configured", http.StatusUnprocessableEntity)
			return
		}

		ctx := context.WithValue(r.Context(), SectorContextKey, sectorID)
		ctx = context.WithValue(ctx, SectorParamsContextKey, params)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalSector middleware adds sector to context if provided, but doesn't require it.
func (m *SectorMiddleware) OptionalSector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sectorIDStr := r.Header.Get("X-Sector-ID")
		if sectorIDStr != "" {
			sectorID, err := uuid.Parse(sectorIDStr)
			if err == nil {
				ctx := context.WithValue(r.Context(), SectorContextKey, sectorID)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}
