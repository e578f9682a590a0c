package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/store"
	"github.com/DuckHunt-discord/Coroned-event/corona"
)

var testNow = time.Date(2020, time.March, 20, 12, 0, 0, 0, time.UTC)

func newTestDispatcher(t *testing.T, svc store.Service, opts Options, draws ...int) (*Dispatcher, *corona.Engine) {
	t.Helper()
	engine, err := corona.NewEngine(corona.DefaultConfig(),
		corona.WithSource(corona.NewScriptedSource(draws...)),
		corona.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)
	if svc == nil {
		svc = store.NewMemoryService(engine.NewPlayer)
	}
	d := New(engine, svc, opts)
	t.Cleanup(d.Close)
	return d, engine
}

func command(actor uint64, name string, target uint64, arg string) Request {
	req := Request{
		Type:    RequestCommand,
		Actor:   Actor{ID: actor, Name: "user"},
		Command: name,
		Arg:     arg,
	}
	if target != 0 {
		req.Target = &Actor{ID: target, Name: "other"}
	}
	return req
}

func TestSubmit_WorkIsPersisted(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})

	resp, err := d.Submit(context.Background(), command(1, "work", 0, ""))
	require.NoError(t, err)
	require.NoError(t, resp.Err)
	require.NotEmpty(t, resp.RequestID)
	require.Len(t, resp.Outcomes, 1)
	require.Equal(t, corona.ActionWork, resp.Outcomes[0].Action)
	require.Equal(t, corona.OutcomeInfo, resp.Outcomes[0].Kind)

	p, err := d.store.LoadPlayer(context.Background(), 1, "")
	require.NoError(t, err)
	require.Equal(t, int64(2), p.Inventory.WorkingPoints)
	require.Equal(t, int64(1), p.Statistics.WorkedTimes)
	require.Equal(t, "user", p.Name)
}

func TestSubmit_EchoesSeqAndRequestID(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})

	req := command(1, "pause", 0, "")
	req.Seq = 42
	req.ID = "req-1"
	resp, err := d.Submit(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, uint64(42), resp.Seq)
	require.Equal(t, "req-1", resp.RequestID)
	require.True(t, resp.Outcomes[0].Denied())
}

func TestSubmit_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})

	resp, err := d.Submit(context.Background(), command(1, "dance", 0, ""))
	require.NoError(t, err)
	require.ErrorIs(t, resp.Err, ErrUnknownCommand)
	require.Empty(t, resp.Outcomes)
}

func TestSubmit_InvalidRequest(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})

	_, err := d.Submit(context.Background(), command(0, "work", 0, ""))
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = d.Submit(context.Background(), Request{Actor: Actor{ID: 1}})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSubmit_TwoPartyNeedsTarget(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})

	resp, err := d.Submit(context.Background(), command(1, "hug", 0, ""))
	require.NoError(t, err)
	require.NoError(t, resp.Err)
	require.Equal(t, corona.OutcomeConfused, resp.Outcomes[0].Kind)
	require.Equal(t, corona.ActionHug, resp.Outcomes[0].Action)
}

func TestSubmit_UnknownItemIsConfused(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})

	resp, err := d.Submit(context.Background(), command(1, "shop", 0, "unicorn"))
	require.NoError(t, err)
	require.Equal(t, corona.OutcomeConfused, resp.Outcomes[0].Kind)
}

func TestSubmit_GiveSavesBothPlayers(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})
	ctx := context.Background()

	resp, err := d.Submit(ctx, command(1, "give", 2, "food"))
	require.NoError(t, err)
	require.NoError(t, resp.Err)
	require.Equal(t, corona.OutcomeInfo, resp.Outcomes[0].Kind)

	giver, err := d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	receiver, err := d.store.LoadPlayer(ctx, 2, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), giver.Inventory.Food)
	require.Equal(t, int64(3), receiver.Inventory.Food)
	require.Equal(t, "other", receiver.Name)
}

func TestSubmit_ConcurrentGivesConserveItems(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})
	ctx := context.Background()

	a, err := d.store.LoadPlayer(ctx, 1, "a")
	require.NoError(t, err)
	a.Inventory.Soap = 50
	require.NoError(t, d.store.SavePlayers(ctx, a))
	_, err = d.store.LoadPlayer(ctx, 2, "b")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		from, to := uint64(1), uint64(2)
		if i%2 == 1 {
			from, to = to, from
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := d.Submit(ctx, command(from, "give", to, "soap"))
			if err != nil || resp.Err != nil {
				t.Errorf("give %d->%d: %v %v", from, to, err, resp.Err)
			}
		}()
	}
	wg.Wait()

	a, err = d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	b, err := d.store.LoadPlayer(ctx, 2, "")
	require.NoError(t, err)
	require.Equal(t, int64(51), a.Inventory.Soap+b.Inventory.Soap)
	require.Equal(t, 0, d.locks.size())
}

func TestSubmit_SelfTargetUsesOnePlayer(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})
	ctx := context.Background()

	p, err := d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	p.Inventory.Gun = 1
	require.NoError(t, d.store.SavePlayers(ctx, p))

	resp, err := d.Submit(ctx, command(1, "use", 1, "gun"))
	require.NoError(t, err)
	require.NoError(t, resp.Err)

	p, err = d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	require.True(t, p.Achievements.Suicided)
	require.True(t, p.Achievements.Murderer)
	require.True(t, p.Achievements.Victim)
	require.Zero(t, p.Inventory.Gun)
	require.Zero(t, p.Inventory.Dagger)
}

func TestSubmit_Statistics(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})

	resp, err := d.Submit(context.Background(), command(1, "stats", 0, ""))
	require.NoError(t, err)
	require.ErrorIs(t, resp.Err, ErrUnknownCommand)

	resp, err = d.Submit(context.Background(), command(1, "statistics", 0, ""))
	require.NoError(t, err)
	require.NoError(t, resp.Err)
	require.Equal(t, corona.ActionStatistics, resp.Outcomes[0].Action)
}

func TestSubmit_MessageRunsAmbientTick(t *testing.T) {
	// exhausted script: every roll returns its minimum, so the author
	// finds the first pool item (a mask) and catches a 1% infection
	d, _ := newTestDispatcher(t, nil, Options{})
	ctx := context.Background()

	req := Request{Type: RequestMessage, Actor: Actor{ID: 1}, Peers: []uint64{1, 2, 3}}
	resp, err := d.Submit(ctx, req)
	require.NoError(t, err)
	require.NoError(t, resp.Err)
	require.Len(t, resp.Outcomes, 1)
	require.Equal(t, corona.ActionFind, resp.Outcomes[0].Action)

	p, err := d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), p.Inventory.Mask)
	require.Equal(t, 1, p.PercentInfected)
}

func TestSubmit_MessageAuthorCountsAsSpeaker(t *testing.T) {
	// five trait draws for the new player, then: find roll misses,
	// infection roll 3 lands only when the author's own infection is
	// counted (chance 4 instead of 2), delta 1
	d, _ := newTestDispatcher(t, nil, Options{}, 100, 100, 0, 0, 0, 13, 3, 1)
	ctx := context.Background()

	p, err := d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	require.False(t, p.Immunodeficient)
	p.PercentInfected = 10
	require.NoError(t, d.store.SavePlayers(ctx, p))

	resp, err := d.Submit(ctx, Request{Type: RequestMessage, Actor: Actor{ID: 1}, Peers: []uint64{1}})
	require.NoError(t, err)
	require.NoError(t, resp.Err)

	p, err = d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	require.Equal(t, 11, p.PercentInfected)
}

func TestSubmit_BotMessagesFindNothing(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})
	ctx := context.Background()

	resp, err := d.Submit(ctx, Request{Type: RequestMessage, Actor: Actor{ID: 1}, BotAuthored: true})
	require.NoError(t, err)
	require.Empty(t, resp.Outcomes)

	p, err := d.store.LoadPlayer(ctx, 1, "")
	require.NoError(t, err)
	require.Zero(t, p.Inventory.Mask)
	require.Equal(t, 1, p.PercentInfected)
}

func TestSubmitAsync_RunsBeforeNextJobOfSameIdentity(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})
	ctx := context.Background()

	var ambientDone atomic.Bool
	err := d.SubmitAsync(ctx, Request{Type: RequestMessage, Actor: Actor{ID: 1}}, func(resp Response) {
		time.Sleep(10 * time.Millisecond)
		ambientDone.Store(true)
	})
	require.NoError(t, err)

	_, err = d.Submit(ctx, command(1, "work", 0, ""))
	require.NoError(t, err)
	require.True(t, ambientDone.Load())
}

func TestSubmitAsync_FullLaneFailsFast(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{QueueSize: 1})
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	msg := Request{Type: RequestMessage, Actor: Actor{ID: 1}}

	require.NoError(t, d.SubmitAsync(ctx, msg, func(Response) {
		close(started)
		<-release
	}))
	<-started
	// fills the one-slot queue while the lane is stuck
	require.NoError(t, d.SubmitAsync(ctx, msg, nil))

	begin := time.Now()
	err := d.SubmitAsync(ctx, msg, nil)
	require.ErrorIs(t, err, ErrBusy)
	require.Less(t, time.Since(begin), 100*time.Millisecond)

	// other identities keep flowing
	answered := make(chan Response, 1)
	require.NoError(t, d.SubmitAsync(ctx, command(2, "work", 0, ""), func(resp Response) { answered <- resp }))
	select {
	case resp := <-answered:
		require.NoError(t, resp.Err)
	case <-time.After(time.Second):
		t.Fatal("identity 2 stalled behind identity 1")
	}
}

type failingSaves struct {
	*store.MemoryService
}

var errDiskFull = errors.New("disk full")

func (failingSaves) SavePlayers(context.Context, ...*corona.Player) error { return errDiskFull }

func TestSubmit_SaveErrorMeansNothingHappened(t *testing.T) {
	engine, err := corona.NewEngine(corona.DefaultConfig(), corona.WithSource(corona.NewScriptedSource()))
	require.NoError(t, err)
	svc := failingSaves{store.NewMemoryService(engine.NewPlayer)}
	d, _ := newTestDispatcher(t, svc, Options{})

	resp, err := d.Submit(context.Background(), command(1, "work", 0, ""))
	require.NoError(t, err)
	require.ErrorIs(t, resp.Err, errDiskFull)
	require.Empty(t, resp.Outcomes)

	p, err := svc.LoadPlayer(context.Background(), 1, "")
	require.NoError(t, err)
	require.Zero(t, p.Inventory.WorkingPoints)
}

func TestLanes_AreReapedWhenIdle(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{IdleTimeout: 20 * time.Millisecond})

	for id := uint64(1); id <= 3; id++ {
		_, err := d.Submit(context.Background(), command(id, "work", 0, ""))
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool { return d.Lanes() == 0 }, time.Second, 5*time.Millisecond)

	// a reaped identity gets a fresh lane
	resp, err := d.Submit(context.Background(), command(1, "work", 0, ""))
	require.NoError(t, err)
	require.NoError(t, resp.Err)
}

func TestClose(t *testing.T) {
	d, _ := newTestDispatcher(t, nil, Options{})
	d.Close()

	_, err := d.Submit(context.Background(), command(1, "work", 0, ""))
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, d.SubmitAsync(context.Background(), command(1, "work", 0, ""), nil), ErrClosed)
}
