package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/goedr/console/internal/console/domain"
	"github.com/goedr/console/internal/console/store"
	"github.com/goedr/console/internal/console/store/planstore"
	"github.com/goedr/console/pkg/slogx"
)

// PlanService handles the plan document store and the administrative
// clear-everything operation.
type PlanService struct {
	Plans *planstore.Store
	Store store.Store
}

// Add validates and stores a plan. An entirely-empty payload is rejected;
// individual absent fields get the enumerated defaults.
func (s *PlanService) Add(ctx context.Context, in domain.PlanInput) (domain.Plan, int, error) {
	if in.IsEmpty() {
		return domain.Plan{}, 0, fmt.Errorf("%w: plan data is required", ErrInvalidInput)
	}

	plan, total, err := s.Plans.Add(ctx, in.Normalize())
	if err != nil {
		return domain.Plan{}, 0, err
	}

	slogx.FromContext(ctx).Info("plan added", "plan_id", plan.ID, "total", total)
	return plan, total, nil
}

// ClearAll wipes the plan document store and then the credential store.
// Both clears run unconditionally, in order, even if the first fails.
func (s *PlanService) ClearAll(ctx context.Context) error {
	planErr := s.Plans.Reset(ctx)
	userErr := s.Store.Users().ResetAll(ctx)
	return errors.Join(planErr, userErr)
}
