// Package engine implements the conversation state machine: item lookup from
// idle, and the guided registration dialogue that follows a failed lookup.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kambuka/storagebot/internal/inventory"
	"github.com/kambuka/storagebot/internal/logger"
	"github.com/kambuka/storagebot/internal/session"
	"github.com/kambuka/storagebot/internal/suggest"
)

// Keyboard names a fixed quick-reply layout for the transport to render.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMenu
	KeyboardYesNo
)

// Reply is one outbound message with an optional quick-reply keyboard.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// listLimit caps how many records a display-all request returns.
const listLimit = 20

// suggestTimeout bounds the cosmetic suggestion call so a slow text service
// never stalls the confirmation prompt.
const suggestTimeout = 5 * time.Second

// Engine interprets each inbound message against the user's session stage,
// advances the stage, and drives store reads/writes. All collaborator
// failures are converted to user-facing replies here; none escape to the
// transport.
type Engine struct {
	store     inventory.Store
	sessions  session.Store
	suggester suggest.Suggester
	fields    []inventory.Field
	log       *slog.Logger
	locks     keyedMutex
}

// Option configures the engine.
type Option func(*Engine)

// WithSearchFields overrides the searchable-field set used by lookups.
func WithSearchFields(fields ...inventory.Field) Option {
	return func(e *Engine) { e.fields = fields }
}

// New creates a conversation engine. The suggester may be nil to disable the
// "not found" flourish entirely.
func New(store inventory.Store, sessions session.Store, suggester suggest.Suggester, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		sessions:  sessions,
		suggester: suggester,
		fields:    inventory.SearchFields,
		log:       logger.L().With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Greeting returns the /start reply with the main menu.
func (e *Engine) Greeting() Reply {
	return Reply{Text: msgWelcome, Keyboard: KeyboardMenu}
}

// Cancel aborts any in-flight dialogue for the user.
func (e *Engine) Cancel(userID int64) Reply {
	defer e.locks.lock(userID)()

	e.sessions.Clear(userID)
	return Reply{Text: msgCancelled, Keyboard: KeyboardMenu}
}

// Handle processes one inbound free-text message for the user and returns the
// reply. Turns for the same user are serialized.
func (e *Engine) Handle(ctx context.Context, userID int64, text string) Reply {
	defer e.locks.lock(userID)()

	text = strings.TrimSpace(text)
	sess := e.sessions.Get(userID)

	e.log.Debug("message received", "user", userID, "stage", sess.Stage.String())

	switch sess.Stage {
	case session.StageIdle:
		return e.handleIdle(ctx, userID, text)

	case session.StageAwaitingAddConfirmation:
		if !isYes(text) {
			e.sessions.Clear(userID)
			return Reply{Text: msgCancelled, Keyboard: KeyboardMenu}
		}
		sess.Stage = session.StageAwaitingNameConfirmation
		e.sessions.Put(userID, sess)
		return Reply{Text: msgConfirmName(sess.DraftName), Keyboard: KeyboardYesNo}

	case session.StageAwaitingNameConfirmation:
		if isYes(text) {
			sess.Stage = session.StageAwaitingLocation
			e.sessions.Put(userID, sess)
			return Reply{Text: msgAskLocation}
		}
		sess.Stage = session.StageAwaitingName
		e.sessions.Put(userID, sess)
		return Reply{Text: msgAskNameAgain}

	case session.StageAwaitingName:
		sess.DraftName = text
		sess.Stage = session.StageAwaitingLocation
		e.sessions.Put(userID, sess)
		return Reply{Text: msgAskLocation}

	case session.StageAwaitingLocation:
		sess.DraftLocation = text
		sess.Stage = session.StageAwaitingDescription
		e.sessions.Put(userID, sess)
		return Reply{Text: msgAskDescription}

	case session.StageAwaitingDescription:
		return e.commit(ctx, userID, sess, text)
	}

	e.sessions.Clear(userID)
	return Reply{Text: msgMenu, Keyboard: KeyboardMenu}
}

// handleIdle resolves menu actions and lookups.
func (e *Engine) handleIdle(ctx context.Context, userID int64, text string) Reply {
	switch text {
	case "":
		return Reply{Text: msgMenu, Keyboard: KeyboardMenu}

	case BtnSearch:
		return Reply{Text: msgAskQuery}

	case BtnAdd:
		e.sessions.Put(userID, session.Session{Stage: session.StageAwaitingName})
		return Reply{Text: msgAskName}
	}

	return e.lookup(ctx, userID, text)
}

// Search returns the records matching the query, in store order.
func (e *Engine) Search(ctx context.Context, query string) ([]inventory.Record, error) {
	records, err := e.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	var matches []inventory.Record
	for _, rec := range records {
		if rec.Matches(query, e.fields) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// lookup scans the whole store for the query. A miss captures the query as
// the draft name and opens the registration dialogue.
func (e *Engine) lookup(ctx context.Context, userID int64, query string) Reply {
	matches, err := e.Search(ctx, query)
	if err != nil {
		e.log.Error("lookup failed", "user", userID, "error", err)
		return Reply{Text: msgLookupFailed, Keyboard: KeyboardMenu}
	}

	cards := make([]string, 0, len(matches))
	for _, rec := range matches {
		cards = append(cards, msgRecordCard(rec.Location, rec.Name, rec.Description))
	}

	if len(cards) > 0 {
		e.log.Info("lookup hit", "user", userID, "query", query, "matches", len(cards))
		return Reply{Text: strings.Join(cards, "\n\n"), Keyboard: KeyboardMenu}
	}

	e.log.Info("lookup miss", "user", userID, "query", query)
	e.sessions.Put(userID, session.Session{
		Stage:     session.StageAwaitingAddConfirmation,
		DraftName: query,
	})

	return Reply{
		Text:     e.flourish(ctx, query) + "\n" + msgConfirmAdd(query),
		Keyboard: KeyboardYesNo,
	}
}

// flourish asks the suggestion service for a playful "not found" sentence.
// Any failure degrades to the fixed wording.
func (e *Engine) flourish(ctx context.Context, query string) string {
	if e.suggester == nil {
		return msgNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()

	prompt := "Одним коротким предложением, по-русски и с лёгким юмором, сообщи, что товара «" +
		query + "» нет на складе."
	text, err := e.suggester.Suggest(ctx, prompt)
	if err != nil {
		e.log.Warn("suggestion unavailable", "error", err)
		return msgNotFound
	}
	return text
}

// commit appends the finished draft to the store. The session is cleared
// whether or not the write succeeds; there is no retry.
func (e *Engine) commit(ctx context.Context, userID int64, sess session.Session, description string) Reply {
	rec := inventory.NewRecord(sess.DraftLocation, sess.DraftName, description)
	err := e.store.Append(ctx, rec)
	e.sessions.Clear(userID)

	if err != nil {
		e.log.Error("append failed", "user", userID, "name", rec.Name, "error", err)
		return Reply{Text: msgAddFailed, Keyboard: KeyboardMenu}
	}

	e.log.Info("record added", "user", userID, "name", rec.Name, "location", rec.Location)
	return Reply{Text: msgAdded, Keyboard: KeyboardMenu}
}

// ListAll returns at most the first 20 records in store order.
func (e *Engine) ListAll(ctx context.Context) Reply {
	records, err := e.store.FetchAll(ctx)
	if err != nil {
		e.log.Error("list failed", "error", err)
		return Reply{Text: msgLookupFailed, Keyboard: KeyboardMenu}
	}

	if len(records) == 0 {
		return Reply{Text: msgEmptyList, Keyboard: KeyboardMenu}
	}

	if len(records) > listLimit {
		records = records[:listLimit]
	}

	cards := make([]string, 0, len(records))
	for _, rec := range records {
		cards = append(cards, msgRecordCard(rec.Location, rec.Name, rec.Description))
	}
	return Reply{Text: strings.Join(cards, "\n\n"), Keyboard: KeyboardMenu}
}

// isYes reports whether the text is the affirmative token. Any other input,
// including empty or malformed text, is treated as "no".
func isYes(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), tokenYes)
}

// keyedMutex serializes turns per user so a concurrent transport cannot
// interleave mutations of the same session.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// lock acquires the user's mutex and returns its unlock func.
func (k *keyedMutex) lock(key int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
