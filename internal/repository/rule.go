package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelops/roster/internal/model"
)

var (
	ErrRuleNotFound          = errors.New("rule not found")
	ErrRuleReorderMismatch   = errors.New("rule reorder id set does not match existing block")
)

type RuleRepository struct {
	db *DB
}

func NewRuleRepository(db *DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(ctx context.Context, rule *model.Rule) error {
	if err := r.db.GORM.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}
	return nil
}

func (r *RuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Rule, error) {
	var rule model.Rule
	err := r.db.GORM.WithContext(ctx).First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting rule: %w", err)
	}
	return &rule, nil
}

func (r *RuleRepository) Update(ctx context.Context, rule *model.Rule) error {
	if err := r.db.GORM.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}
	return nil
}

func (r *RuleRepository) GetByCode(ctx context.Context, code string) (*model.Rule, error) {
	var rule model.Rule
	err := r.db.GORM.WithContext(ctx).Where("code = ?", code).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting rule by code: %w", err)
	}
	return &rule, nil
}

// FetchRules returns rules visible to sector as of asOf: global rules
// (LABOR, SYSTEM) plus the sector's own (OPERATIONAL, CALCULATION) rules,
// filtered to within validity + not soft-deleted (and to active when
// activeOnly is set), ordered by (kind, rigidity, priority ascending).
func (r *RuleRepository) FetchRules(ctx context.Context, sectorID uuid.UUID, asOf time.Time, activeOnly bool) ([]model.Rule, error) {
	query := r.db.GORM.WithContext(ctx).
		Where("(sector_id IS NULL OR sector_id = ?)", sectorID).
		Where("deleted_at IS NULL").
		Where("(validity_start IS NULL OR validity_start <= ?)", asOf).
		Where("(validity_end IS NULL OR validity_end >= ?)", asOf)

	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rules []model.Rule
	err := query.Order("kind ASC, rigidity ASC, priority ASC").Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("fetching rules: %w", err)
	}
	return rules, nil
}

// Reorder atomically renumbers priorities 1..n within one (kind, rigidity)
// block, rejecting if ruleIDs does not match the existing block's member
// set exactly.
func (r *RuleRepository) Reorder(ctx context.Context, sectorID *uuid.UUID, kind model.RuleKind, rigidity model.RuleRigidity, ruleIDs []uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&model.Rule{}).Where("kind = ? AND rigidity = ?", kind, rigidity)
		if sectorID != nil {
			query = query.Where("sector_id = ?", *sectorID)
		} else {
			query = query.Where("sector_id IS NULL")
		}

		var existing []model.Rule
		if err := query.Find(&existing).Error; err != nil {
			return fmt.Errorf("loading rule block: %w", err)
		}

		existingIDs := make(map[uuid.UUID]struct{}, len(existing))
		for _, e := range existing {
			existingIDs[e.ID] = struct{}{}
		}
		if len(existingIDs) != len(ruleIDs) {
			return ErrRuleReorderMismatch
		}
		for _, id := range ruleIDs {
			if _, ok := existingIDs[id]; !ok {
				return ErrRuleReorderMismatch
			}
		}

		for i, id := range ruleIDs {
			if err := tx.Model(&model.Rule{}).Where("id = ?", id).Update("priority", i+1).Error; err != nil {
				return fmt.Errorf("renumbering rule priority: %w", err)
			}
		}
		return nil
	})
}

// CodeExists reports whether a rule already uses the given code — used by the deterministic code generator to
// detect a collision in practice (collisions of the hash-slug itself are
// astronomically unlikely but the uniqueness constraint still guards it).
func (r *RuleRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.GORM.WithContext(ctx).Model(&model.Rule{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking rule code existence: %w", err)
	}
	return count > 0, nil
}
