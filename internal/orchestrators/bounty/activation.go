package bounty

import (
	"context"
	"log/slog"

	"github.com/cenkalti/backoff/v5"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
)

// activate runs the binding protocol for one queued bounty
func (o *orchestrator) activate(ctx context.Context, def *entities.QuestDefinition) ActivationResult {
	res := ActivationResult{Definition: def}
	abandon := func(err error) ActivationResult {
		res.State = entities.StateAbandoned
		res.Err = err
		o.setState(def, entities.StateAbandoned)
		slog.Warn("Abandoned bounty",
			"quest", def.Name,
			"location", def.Location.String(),
			"attempts", res.Attempts,
			"error", err,
		)
		o.publish(ctx, EventAbandoned, def)
		return res
	}

	if def.Quest.IsNone() || def.Location.IsNone() || def.Region.IsNone() {
		return abandon(errors.FailedPreconditionf("bounty %s has missing data", def.Name))
	}
	if o.store.IsReserved(def.Location) {
		return abandon(errors.AlreadyExistsf("location %s is already reserved", def.Location))
	}

	o.setState(def, entities.StateStarting)
	if !o.host.IsRunning(def.Quest) {
		if err := o.host.Start(def.Quest); err != nil {
			return abandon(errors.Wrapf(err, "failed to start quest %s", def.Quest))
		}
	}

	alias, ok := o.freeAlias(def.Quest)
	if !ok {
		return abandon(errors.FailedPreconditionf("quest %s has no free reference alias", def.Quest))
	}
	res.AliasID = alias.ID

	o.setState(def, entities.StateAwaitingBinding)
	actor, err := o.bind(ctx, def.Location, &res.Attempts)
	if err != nil {
		return abandon(err)
	}
	res.Actor = actor

	if !o.store.Reserve(def.Location) {
		return abandon(errors.AlreadyExistsf("location %s was reserved during binding", def.Location))
	}
	if err := o.bridge.ForceBindActor(def.Quest, alias.ID, actor); err != nil {
		o.store.Release(def.Location)
		return abandon(errors.Wrapf(err, "failed to bind actor %s", actor))
	}
	o.setState(def, entities.StateBound)
	slog.Info("Bound bounty",
		"quest", def.Name,
		"alias", alias.ID,
		"actor", actor.String(),
		"attempts", res.Attempts,
	)

	o.revealMarker(def.Location)
	o.displayObjective(def, uint16(alias.ID))

	res.State = entities.StateActive
	o.setState(def, entities.StateActive)
	o.publish(ctx, EventActivated, def)
	return res
}

// freeAlias returns the first reference alias that holds no live actor
func (o *orchestrator) freeAlias(quest entities.FormID) (host.Alias, bool) {
	for _, alias := range o.host.Aliases(quest) {
		if alias.Kind != host.AliasReference {
			continue
		}
		actor := o.host.AliasActor(quest, alias.ID)
		if actor.IsNone() || o.host.IsDead(actor) {
			return alias, true
		}
	}
	return host.Alias{}, false
}

// bind drives the alias generator until its actor alias is filled with a
// live actor from location. Each attempt restarts the generator on the
// location and waits for the host to fill the alias.
func (o *orchestrator) bind(ctx context.Context, location entities.FormID, attempts *int) (entities.FormID, error) {
	gen := o.forms.AliasGenerator

	operation := func() (entities.FormID, error) {
		*attempts++

		if err := o.host.Stop(gen); err != nil {
			return entities.NoForm, errors.Wrap(err, "failed to stop alias generator")
		}
		if err := o.bridge.SetQuestLocation(gen, generatorLocationAlias, location); err != nil {
			return entities.NoForm, errors.Wrap(err, "failed to set generator location")
		}
		if _, err := o.host.EnsureStarted(gen); err != nil {
			return entities.NoForm, errors.Wrap(err, "failed to start alias generator")
		}
		if err := o.clock.Sleep(ctx, o.bindInterval); err != nil {
			return entities.NoForm, backoff.Permanent(err)
		}

		actor := o.host.AliasActor(gen, generatorActorAlias)
		if actor.IsNone() || o.host.IsDead(actor) || o.host.IsDisabled(actor) {
			slog.Debug("Alias generator not filled yet",
				"location", location.String(),
				"attempt", *attempts,
			)
			return entities.NoForm, errors.Unavailablef("no live actor in %s", location)
		}
		return actor, nil
	}

	actor, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(uint(o.bindAttempts)),
	)
	if err != nil {
		return entities.NoForm, errors.WrapWithCodef(err, errors.CodeUnavailable,
			"no actor bound after %d attempts", *attempts)
	}
	return actor, nil
}

// revealMarker shows the location's map marker: its own world marker, or
// the registered map-marker reference
func (o *orchestrator) revealMarker(location entities.FormID) {
	marker := o.host.WorldMarker(location)
	if marker.IsNone() {
		marker = o.host.SpecialRef(location, o.forms.MapMarkerType)
	}
	if marker.IsNone() {
		slog.Debug("Location has no map marker", "location", location.String())
		return
	}
	if err := o.host.SetMapMarkerVisible(marker); err != nil {
		slog.Warn("Failed to reveal map marker", "marker", marker.String(), "error", err)
	}
}

// displayObjective writes the generated objective text, records it for the
// save and shows the objective
func (o *orchestrator) displayObjective(def *entities.QuestDefinition, index uint16) {
	if _, ok := o.host.ObjectiveState(def.Quest, index); !ok {
		slog.Warn("Quest has no objective for alias",
			"quest", def.Quest.String(),
			"index", index,
		)
		return
	}

	name := o.host.FormName(def.Location)
	if name == "" {
		name = def.Name
	}
	text := o.texts.FormatObjective(def.Difficulty, index, name)

	if err := o.host.SetObjectiveText(def.Quest, index, text); err != nil {
		slog.Warn("Failed to set objective text", "quest", def.Quest.String(), "index", index, "error", err)
	}
	o.store.RecordObjectiveText(entities.ObjectiveText{
		Quest:    def.Quest,
		Location: def.Location,
		Index:    index,
		Text:     text,
	})
	o.catalog.SetObjectiveIndex(def.Quest, def.Location, index)

	if err := o.bridge.SetObjectiveState(def.Quest, index, host.ObjectiveDisplayed); err != nil {
		slog.Warn("Failed to display objective", "quest", def.Quest.String(), "index", index, "error", err)
	}
}
