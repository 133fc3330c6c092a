package bounty

import (
	"context"
	"log/slog"

	"github.com/cenkalti/backoff/v5"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
)

// maxAncestors bounds the parent walk against cyclic location data
const maxAncestors = 64

// RebindRegion points the catalogue quest at the tracked region enclosing
// the location. The rebind runs on the executor.
func (o *orchestrator) RebindRegion(_ context.Context, input *RebindRegionInput) (*RebindRegionOutput, error) {
	if input == nil || input.Location.IsNone() {
		return nil, errors.InvalidArgument("location is required")
	}

	region := o.trackedRegion(input.Location)
	if region.IsNone() {
		slog.Debug("Location is outside every tracked region", "location", input.Location.String())
		return &RebindRegionOutput{}, nil
	}

	done := o.executor.Submit("rebind "+region.String(), func(ctx context.Context) error {
		return o.rebind(ctx, region)
	})
	return &RebindRegionOutput{Region: region, Done: done}, nil
}

// trackedRegion walks from location up its parents to the first region
// that has a tracker
func (o *orchestrator) trackedRegion(location entities.FormID) entities.FormID {
	for i, loc := 0, location; i < maxAncestors && !loc.IsNone(); i++ {
		if o.store.IsTracked(loc) {
			return loc
		}
		loc = o.host.ParentLocation(loc)
	}
	return entities.NoForm
}

// rebind restarts the catalogue quest on region until it runs with its
// location alias filled
func (o *orchestrator) rebind(ctx context.Context, region entities.FormID) error {
	q := o.forms.Catalogue
	attempts := 0

	if err := o.host.Stop(q); err != nil {
		return errors.Wrap(err, "failed to stop catalogue")
	}

	operation := func() (struct{}, error) {
		attempts++
		slog.Debug("Rebinding catalogue", "region", region.String(), "attempt", attempts)

		if err := o.host.Stop(q); err != nil {
			return struct{}{}, errors.Wrap(err, "failed to stop catalogue")
		}
		if err := o.bridge.SetQuestLocation(q, catalogueLocationAlias, region); err != nil {
			return struct{}{}, errors.Wrap(err, "failed to set catalogue location")
		}
		if _, err := o.host.EnsureStarted(q); err != nil {
			return struct{}{}, errors.Wrap(err, "failed to start catalogue")
		}
		if err := o.clock.Sleep(ctx, o.rebindInterval); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}

		if !o.host.IsRunning(q) || o.host.AliasLocation(q, catalogueLocationAlias).IsNone() {
			return struct{}{}, errors.Unavailablef("catalogue not running on %s", region)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(uint(o.rebindAttempts)),
	)
	if err != nil {
		slog.Warn("Failed to rebind catalogue", "region", region.String(), "attempts", attempts, "error", err)
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "catalogue not bound after %d attempts", attempts)
	}

	slog.Info("Rebound catalogue", "region", region.String(), "attempts", attempts)
	return nil
}
