package dispatch

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/DuckHunt-discord/Coroned-event/corona"
	"github.com/DuckHunt-discord/Coroned-event/item"
)

func (d *Dispatcher) handle(req Request) Response {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	entry := d.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"actor":      req.Actor.ID,
		"type":       req.Type.String(),
	})

	var (
		outcomes []corona.Outcome
		err      error
	)
	switch req.Type {
	case RequestMessage:
		outcomes, err = d.handleMessage(ctx, req)
	case RequestCommand:
		entry = entry.WithField("command", req.Command)
		outcomes, err = d.handleCommand(ctx, req)
	}

	resp := Response{RequestID: req.ID, Seq: req.Seq, Outcomes: outcomes, Err: err}
	if err != nil {
		entry.WithError(err).Warn("Request failed")
		return resp
	}
	for _, o := range outcomes {
		entry.WithFields(logrus.Fields{
			"action":  o.Action.String(),
			"outcome": o.Kind.String(),
		}).Debug("Outcome")
	}
	return resp
}

// handleMessage runs the ambient tick for the message author.
func (d *Dispatcher) handleMessage(ctx context.Context, req Request) ([]corona.Outcome, error) {
	release := d.locks.lock(req.Actor.ID)
	defer release()

	p, err := d.load(ctx, req.Actor)
	if err != nil {
		return nil, err
	}

	// peers are only read, a slightly stale copy is fine. The author counts
	// as a speaker too.
	peers := make([]*corona.Player, 0, len(req.Peers))
	for _, id := range req.Peers {
		if id == 0 {
			continue
		}
		if id == p.Identity {
			peers = append(peers, p)
			continue
		}
		peer, err := d.store.LoadPlayer(ctx, id, "")
		if err != nil {
			return nil, fmt.Errorf("load peer %d: %w", id, err)
		}
		peers = append(peers, peer)
	}

	res := d.engine.Ambient(p, peers, corona.AmbientOptions{SkipFind: req.BotAuthored})
	if res.Changed {
		if err := d.store.SavePlayers(ctx, p); err != nil {
			return nil, fmt.Errorf("save player %d: %w", p.Identity, err)
		}
	}
	return res.Outcomes, nil
}

func (d *Dispatcher) handleCommand(ctx context.Context, req Request) ([]corona.Outcome, error) {
	action, ok := corona.ParseAction(req.Command)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	}

	switch action {
	case corona.ActionPause:
		return []corona.Outcome{d.engine.Pause()}, nil
	case corona.ActionStatistics:
		stats, err := d.store.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("load statistics: %w", err)
		}
		return []corona.Outcome{d.engine.Statistics(stats)}, nil
	}

	var k item.Kind
	if needsItem(action) {
		kind, o, ok := d.engine.ResolveItem(action, req.Arg)
		if !ok {
			return []corona.Outcome{o}, nil
		}
		k = kind
	}

	hasTarget := req.Target != nil && req.Target.ID != 0 && usesTarget(action)
	if action.TwoParty() && !hasTarget {
		return []corona.Outcome{corona.NoTarget(action)}, nil
	}

	ids := []uint64{req.Actor.ID}
	if hasTarget {
		ids = append(ids, req.Target.ID)
	}
	release := d.locks.lock(ids...)
	defer release()

	actor, err := d.load(ctx, req.Actor)
	if err != nil {
		return nil, err
	}
	var target *corona.Player
	if hasTarget {
		if req.Target.ID == actor.Identity {
			target = actor
		} else if target, err = d.load(ctx, *req.Target); err != nil {
			return nil, err
		}
	}

	o := d.apply(action, actor, target, k)
	if o.Changed {
		if err := d.store.SavePlayers(ctx, actor, target); err != nil {
			return nil, fmt.Errorf("save %s: %w", action, err)
		}
	}
	return []corona.Outcome{o}, nil
}

// apply runs one action. target is non-nil for two-party actions.
func (d *Dispatcher) apply(action corona.Action, actor, target *corona.Player, k item.Kind) corona.Outcome {
	e := d.engine
	switch action {
	case corona.ActionWork:
		return e.Work(actor)
	case corona.ActionSchool:
		return e.School(actor)
	case corona.ActionResearch:
		return e.Research(actor)
	case corona.ActionShop:
		return e.Shop(actor, k)
	case corona.ActionHospital:
		return e.Hospital(actor, k)
	case corona.ActionUse:
		return e.Use(actor, k, target)
	case corona.ActionHug:
		return e.Hug(actor, target)
	case corona.ActionGive:
		return e.Give(actor, target, k)
	case corona.ActionHeal:
		return e.Heal(actor, target)
	case corona.ActionBrain:
		return e.Brain(actor, target)
	case corona.ActionProfile:
		if target != nil {
			return e.Profile(target)
		}
		return e.Profile(actor)
	default:
		return corona.Outcome{Action: action, Kind: corona.OutcomeConfused}
	}
}

func (d *Dispatcher) load(ctx context.Context, a Actor) (*corona.Player, error) {
	p, err := d.store.LoadPlayer(ctx, a.ID, a.Name)
	if err != nil {
		return nil, fmt.Errorf("load player %d: %w", a.ID, err)
	}
	p.System = a.System
	return p, nil
}

func needsItem(a corona.Action) bool {
	switch a {
	case corona.ActionShop, corona.ActionHospital, corona.ActionGive, corona.ActionUse:
		return true
	}
	return false
}

func usesTarget(a corona.Action) bool {
	return a.TwoParty() || a == corona.ActionUse || a == corona.ActionProfile
}
