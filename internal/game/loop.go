// Package game runs the reconciliation loop: two polling cadences against
// the authority, snapshot merging into the display trackers, and the
// declaration round trip. All mutable state lives on the loop goroutine;
// network results and user actions are marshalled onto it through channels.
package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"SjavsClient/internal/deck"
	"SjavsClient/internal/gateway"
	"SjavsClient/internal/layout"
	"SjavsClient/internal/meld"
	"SjavsClient/internal/scheduler"
	"SjavsClient/internal/table"
)

// Authority is the slice of the gateway client the loop drives.
type Authority interface {
	Updates(ctx context.Context) (string, error)
	State(ctx context.Context) (gateway.State, error)
	Command(ctx context.Context, command string) (string, error)
}

// newDealMarker is the update text fragment that means a fresh hand was
// dealt; it triggers an immediate hand refresh.
const newDealMarker = "Received 8 cards."

type Options struct {
	Authority Authority
	Seat      layout.Seat
	Scheduler scheduler.Scheduler // defaults to the wall clock
	Events    time.Duration       // event feed cadence, default 1s
	State     time.Duration       // snapshot feed cadence, default 2s
	Notify    func(string)        // one-shot notifications, may be nil
	Render    func(View)          // called after every merge, may be nil
	Log       *charmlog.Logger
}

type Loop struct {
	auth        Authority
	seat        layout.Seat
	sched       scheduler.Scheduler
	eventsEvery time.Duration
	stateEvery  time.Duration
	notifyFn    func(string)
	render      func(View)
	log         *charmlog.Logger

	// dispatch sends a command asynchronously and posts the result back to
	// the loop goroutine. Swapped for a synchronous version in tests.
	dispatch func(ctx context.Context, cmd string, onResult func(msg string, err error))

	results chan func()
	actions chan func(context.Context)
	done    chan struct{}
	halted  bool

	phase          string
	trump          deck.Suit
	currentTurn    layout.Seat
	players        []gateway.Player
	scoreboard     map[string]int
	hand           []deck.Card
	reported       map[layout.Seat]deck.Card
	lastWinner     layout.Seat
	highlightUntil time.Time
	tracker        *table.Tracker
	meld           *meld.Coordinator
}

func NewLoop(opts Options) *Loop {
	l := &Loop{
		auth:        opts.Authority,
		seat:        opts.Seat,
		sched:       opts.Scheduler,
		eventsEvery: opts.Events,
		stateEvery:  opts.State,
		notifyFn:    opts.Notify,
		render:      opts.Render,
		log:         opts.Log,
		results:     make(chan func(), 16),
		actions:     make(chan func(context.Context), 16),
		done:        make(chan struct{}),
		phase:       "init",
		reported:    make(map[layout.Seat]deck.Card),
		tracker:     table.NewTracker(),
		meld:        meld.NewCoordinator(),
	}
	if l.sched == nil {
		l.sched = scheduler.New()
	}
	if l.eventsEvery <= 0 {
		l.eventsEvery = time.Second
	}
	if l.stateEvery <= 0 {
		l.stateEvery = 2 * time.Second
	}
	if l.notifyFn == nil {
		l.notifyFn = func(string) {}
	}
	if l.render == nil {
		l.render = func(View) {}
	}
	if l.log == nil {
		l.log = charmlog.Default()
	}
	l.dispatch = l.asyncDispatch
	return l
}

// Run polls both feeds until the context is canceled or the authority
// rejects the credential. Rejection is terminal: both cadences stop and the
// caller must establish a fresh session to continue.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	events := l.sched.Every(l.eventsEvery)
	states := l.sched.Every(l.stateEvery)
	defer events.Stop()
	defer states.Stop()

	// Prime both feeds right away, as the web client does on join.
	if err := l.pollEvents(ctx); err != nil {
		return err
	}
	if err := l.pollState(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			l.halted = true
			return ctx.Err()
		case <-events.C():
			if err := l.pollEvents(ctx); err != nil {
				return err
			}
		case <-states.C():
			if err := l.pollState(ctx); err != nil {
				return err
			}
		case fn := <-l.results:
			fn()
		case fn := <-l.actions:
			fn(ctx)
		}
	}
}

func (l *Loop) pollEvents(ctx context.Context) error {
	msg, err := l.auth.Updates(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return l.halt(err)
		}
		l.notify("Update error: " + err.Error())
		return nil
	}
	l.applyEvent(ctx, msg)
	return nil
}

func (l *Loop) pollState(ctx context.Context) error {
	st, err := l.auth.State(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return l.halt(err)
		}
		l.notify("State error: " + err.Error())
		return nil
	}
	l.applyState(ctx, st)
	return nil
}

func (l *Loop) halt(err error) error {
	l.halted = true
	l.notify("Session expired. Rejoin to continue.")
	return err
}

func (l *Loop) applyEvent(ctx context.Context, msg string) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	l.notify(msg)
	if strings.Contains(msg, newDealMarker) {
		l.submit(ctx, "show")
	}
}

// applyState merges one authoritative snapshot. The snapshot replaces the
// loop's copy wholesale; only the optimistic tracker and declaration
// coordinator carry anything across ticks.
func (l *Loop) applyState(ctx context.Context, st gateway.State) {
	prevPhase := l.phase
	l.phase = st.Phase
	l.trump = deck.ParseSuit(st.Trump)
	l.currentTurn = layout.Seat(st.CurrentTurn)
	l.players = st.Players
	l.scoreboard = st.Scoreboard
	l.lastWinner = layout.Seat(st.LastWinner)
	l.highlightUntil = epoch(st.HighlightUntil)

	if st.Phase == "deal" && prevPhase != "deal" {
		l.tracker.Reset()
		l.meld.EnterDeal()
	}
	if st.Phase != meld.PhaseDeclaration {
		l.meld.LeaveDeclaration()
	}

	// Prune predictions before anything is laid out, so a stale card can
	// never render on top of a confirmed one.
	reported := make(map[layout.Seat]deck.Card, len(st.TableSlots))
	for _, s := range st.TableSlots {
		reported[layout.Seat(s.ID)] = deck.Card(s.Card)
	}
	l.tracker.Prune(reported)
	l.reported = reported

	recent := make(map[layout.Seat]deck.Card, len(st.RecentTrick))
	for _, s := range st.RecentTrick {
		recent[layout.Seat(s.ID)] = deck.Card(s.Card)
	}
	l.tracker.SetRecent(recent, epoch(st.RecentTrickExpire))

	hand := make([]deck.Card, 0, len(st.Hand))
	for _, c := range st.Hand {
		hand = append(hand, deck.Card(c))
	}
	l.hand = deck.Sort(hand, l.trump)

	myTurn := l.seat == l.currentTurn
	if l.meld.ShouldRequest(l.phase, myTurn, len(l.hand), len(l.players)) {
		l.meld.MarkRequested()
		l.dispatch(ctx, "maxmeld", func(msg string, err error) {
			if err != nil {
				l.log.Warn("max meld request failed", "err", err)
				l.meld.RequestFailed()
				return
			}
			l.meld.HandleResult(msg)
			if msg != "" {
				l.notify("Max meld: " + msg)
			}
			l.render(l.buildView())
		})
	}
	if suit, ok := l.meld.AutoSuit(l.phase, l.trump != deck.NoSuit, myTurn); ok {
		l.dispatch(ctx, "S "+string(rune(suit)), l.surface)
	}

	l.render(l.buildView())
}

// PlayCard submits a play and applies it optimistically once the authority
// accepts it, so the card shows before the next snapshot confirms it.
func (l *Loop) PlayCard(card deck.Card) {
	l.do(func(ctx context.Context) { l.playCard(ctx, card) })
}

func (l *Loop) playCard(ctx context.Context, card deck.Card) {
	if card == "" {
		return
	}
	l.dispatch(ctx, "P "+string(card), func(msg string, err error) {
		if err != nil {
			l.notify("Command failed: " + err.Error())
			return
		}
		if msg != "" {
			l.notify(msg)
		}
		if msg == "" || msg == "OK" {
			l.tracker.RecordOptimistic(l.seat, card)
			l.removeFromHand(card)
			l.render(l.buildView())
		}
	})
}

// DeclareBest declares the computed best combination and re-arms the suit
// auto-send for the authority's follow-up question.
func (l *Loop) DeclareBest() {
	l.do(func(ctx context.Context) { l.declareBest(ctx) })
}

func (l *Loop) declareBest(ctx context.Context) {
	value, ok := l.meld.Declare(l.seat == l.currentTurn)
	if !ok {
		return
	}
	l.submit(ctx, "M "+strconv.Itoa(value))
	l.render(l.buildView())
}

// PassMeld passes on declaring.
func (l *Loop) PassMeld() {
	l.do(func(ctx context.Context) { l.passMeld(ctx) })
}

func (l *Loop) passMeld(ctx context.Context) {
	if !l.meld.Pass(l.seat == l.currentTurn) {
		return
	}
	l.submit(ctx, "M 0")
	l.render(l.buildView())
}

// RequestBots asks the authority to fill the empty seats.
func (l *Loop) RequestBots() {
	l.Submit("bots")
}

// Split proposes the deal split depth.
func (l *Loop) Split(n int) {
	l.Submit(fmt.Sprintf("split %d", n))
}

// Banka takes the banka option during the deal phase.
func (l *Loop) Banka() {
	l.Submit("banka")
}

// Submit sends a free-form command string; the result text, if any, comes
// back as a notification.
func (l *Loop) Submit(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}
	l.do(func(ctx context.Context) { l.submit(ctx, cmd) })
}

func (l *Loop) submit(ctx context.Context, cmd string) {
	l.dispatch(ctx, cmd, l.surface)
}

// surface is the default command continuation: show the authority's reply.
func (l *Loop) surface(msg string, err error) {
	if err != nil {
		l.notify("Command failed: " + err.Error())
		return
	}
	if msg != "" {
		l.notify(msg)
	}
}

func (l *Loop) do(fn func(context.Context)) {
	select {
	case l.actions <- fn:
	case <-l.done:
	}
}

func (l *Loop) asyncDispatch(ctx context.Context, cmd string, onResult func(string, error)) {
	go func() {
		msg, err := l.auth.Command(ctx, cmd)
		res := func() {
			// The session may have been torn down while the request was in
			// flight; its result is then discarded.
			if l.halted {
				return
			}
			onResult(strings.TrimSpace(msg), err)
		}
		select {
		case l.results <- res:
		case <-ctx.Done():
		}
	}()
}

func (l *Loop) notify(msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	l.notifyFn(msg)
}

func (l *Loop) removeFromHand(card deck.Card) {
	for i, c := range l.hand {
		if c == card {
			l.hand = append(l.hand[:i], l.hand[i+1:]...)
			return
		}
	}
}

// epoch converts the wire's epoch-seconds floats; zero stays the zero time.
func epoch(sec float64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(sec*float64(time.Second)))
}
