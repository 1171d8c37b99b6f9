package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

// tableState is everything the controller owns. It is only touched with
// TableController.mu held.
type tableState struct {
	store   *domain.RecordStore
	session *domain.EditSession

	loading  bool
	saving   bool
	deleting bool
	creating bool
	// pendingID is the record under save or delete.
	pendingID int64

	notice *ports.Notice
}

func (s *tableState) busy() bool {
	return s.saving || s.deleting || s.creating
}

// inFlight reports whether any remote call is outstanding. A load counts: a
// mutation applied under it would be overwritten by the older listing.
func (s *tableState) inFlight() bool {
	return s.loading || s.busy()
}

func (s *tableState) rowState(id int64) domain.RowState {
	switch {
	case s.deleting && s.pendingID == id:
		return domain.RowDeleting
	case s.saving && s.pendingID == id:
		return domain.RowSaving
	}
	if target, ok := s.session.TargetID(); ok && target == id {
		return domain.RowEditing
	}
	return domain.RowViewing
}

// enter checks that a user action may move row id to next. Rows with a
// remote call in flight accept no actions.
func (s *tableState) enter(id int64, next domain.RowState) error {
	cur := s.rowState(id)
	if cur == domain.RowSaving || cur == domain.RowDeleting || !cur.CanTransitionTo(next) {
		return fmt.Errorf("%w: record %d cannot go from %s to %s", domain.ErrInvalidState, id, cur, next)
	}
	return nil
}

// TableController is the editable user table. Remote calls and confirmation
// prompts run without the lock held, so View stays responsive; the status
// flags keep at most one mutation in flight.
type TableController struct {
	gateway ports.UserGateway
	guard   ports.RegistrationGuard
	audit   ports.AuditRecorder
	log     zerolog.Logger
	now     func() time.Time

	mu sync.Mutex
	st tableState
}

// NewTableController returns a controller with an empty store. guard and
// audit may be nil.
func NewTableController(
	gateway ports.UserGateway,
	guard ports.RegistrationGuard,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *TableController {
	if guard == nil {
		guard = nopGuard{}
	}
	if audit == nil {
		audit = nopRecorder{}
	}
	store := domain.NewRecordStore()
	return &TableController{
		gateway: gateway,
		guard:   guard,
		audit:   audit,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
		st: tableState{
			store:   store,
			session: domain.NewEditSession(store),
		},
	}
}

// Load fetches all records and replaces the table contents. On failure the
// store keeps its previous contents.
func (c *TableController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.st.inFlight() {
		defer c.mu.Unlock()
		return c.failLocked(ports.NoticeInvalidState, fmt.Errorf("%w: load while another request is in flight", domain.ErrInvalidState))
	}
	c.st.loading = true
	c.st.notice = nil
	c.mu.Unlock()

	records, err := c.gateway.FindAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.loading = false
	if err != nil {
		metrics.LoadsTotal.WithLabelValues("error").Inc()
		return c.failLocked(ports.NoticeLoadError, &domain.LoadError{Err: err})
	}
	c.st.store.Load(records)
	c.dropStaleSessionLocked()
	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	metrics.RecordsLoaded.Set(float64(c.st.store.Len()))
	c.log.Info().Int("records", c.st.store.Len()).Msg("records loaded")
	return nil
}

// BeginEdit opens the edit session on record id.
func (c *TableController) BeginEdit(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.st.store.Get(id)
	if !ok {
		return c.failLocked(ports.NoticeInvalidState, fmt.Errorf("begin edit: %w: %d", domain.ErrRecordNotFound, id))
	}
	if err := c.st.enter(id, domain.RowEditing); err != nil {
		return c.failLocked(ports.NoticeInvalidState, err)
	}
	if err := c.st.session.Begin(rec); err != nil {
		return c.failLocked(ports.NoticeInvalidState, err)
	}
	c.log.Debug().Int64("user_id", id).Msg("edit started")
	return nil
}

// SetField stores value in the draft of the open session.
func (c *TableController) SetField(field domain.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireEditingLocked(); err != nil {
		return err
	}
	// Bad values are user input, not a state failure.
	return c.st.session.SetField(field, value)
}

// Cancel discards the draft and closes the session.
func (c *TableController) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireEditingLocked(); err != nil {
		return err
	}
	id, _ := c.st.session.TargetID()
	c.st.session.End()
	c.log.Debug().Int64("user_id", id).Msg("edit cancelled")
	return nil
}

// Save asks for confirmation and then persists the resolved draft. On
// failure the session stays open with its draft intact.
func (c *TableController) Save(ctx context.Context, confirm ports.Confirmer) (ports.Outcome, error) {
	c.mu.Lock()
	id, candidate, err := c.saveCandidateLocked()
	if err != nil {
		defer c.mu.Unlock()
		return ports.Outcome{}, err
	}
	base, _ := c.st.store.Get(id)
	c.mu.Unlock()

	prompt := fmt.Sprintf("Do you want to edit this user %s?", base.DisplayName())
	if !confirm.Confirm(ctx, prompt) {
		c.recordOutcome(ctx, domain.OpUpdate, domain.ResultDeclined, id, nil, nil)
		return ports.Outcome{Prompt: prompt}, nil
	}

	c.mu.Lock()
	// The prompt ran unlocked; re-check that the same session is still saveable.
	if target, ok := c.st.session.TargetID(); ok && target != id {
		defer c.mu.Unlock()
		return ports.Outcome{Prompt: prompt}, c.failLocked(ports.NoticeInvalidState,
			fmt.Errorf("%w: edit target changed during confirmation", domain.ErrInvalidState))
	}
	if id, candidate, err = c.saveCandidateLocked(); err != nil {
		defer c.mu.Unlock()
		return ports.Outcome{Prompt: prompt}, err
	}
	draft := c.st.session.Draft()
	c.st.saving = true
	c.st.pendingID = id
	c.st.notice = nil
	c.mu.Unlock()

	updated, err := c.gateway.Update(ctx, id, domain.PatchOf(candidate))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.saving = false
	c.st.pendingID = 0
	if err != nil {
		c.recordOutcome(ctx, domain.OpUpdate, domain.ResultFailed, id, draft, err)
		return ports.Outcome{Prompt: prompt}, c.failLocked(ports.NoticeRemoteError, fmt.Errorf("save record %d: %w", id, err))
	}
	if updated == nil || updated.UserID == 0 {
		updated = &candidate
	}
	c.st.store.UpsertLocal(*updated)
	c.st.session.End()
	c.recordOutcome(ctx, domain.OpUpdate, domain.ResultApplied, id, draft, nil)
	c.log.Info().Int64("user_id", id).Int("fields", len(draft)).Msg("record updated")
	return ports.Outcome{Applied: true, Prompt: prompt}, nil
}

// Delete asks for confirmation and then removes record id remotely and
// locally. An edit session on the same record is closed on success.
func (c *TableController) Delete(ctx context.Context, id int64, confirm ports.Confirmer) (ports.Outcome, error) {
	c.mu.Lock()
	rec, err := c.deleteTargetLocked(id)
	c.mu.Unlock()
	if err != nil {
		return ports.Outcome{}, err
	}

	prompt := fmt.Sprintf("Do you want delete user %s?", rec.DisplayName())
	if !confirm.Confirm(ctx, prompt) {
		c.recordOutcome(ctx, domain.OpDelete, domain.ResultDeclined, id, nil, nil)
		return ports.Outcome{Prompt: prompt}, nil
	}

	c.mu.Lock()
	if _, err := c.deleteTargetLocked(id); err != nil {
		c.mu.Unlock()
		return ports.Outcome{Prompt: prompt}, err
	}
	c.st.deleting = true
	c.st.pendingID = id
	c.st.notice = nil
	c.mu.Unlock()

	err = c.gateway.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.deleting = false
	c.st.pendingID = 0
	if err != nil {
		c.recordOutcome(ctx, domain.OpDelete, domain.ResultFailed, id, nil, err)
		return ports.Outcome{Prompt: prompt}, c.failLocked(ports.NoticeRemoteError, fmt.Errorf("delete record %d: %w", id, err))
	}
	c.st.store.RemoveLocal(id)
	if target, ok := c.st.session.TargetID(); ok && target == id {
		c.st.session.End()
		c.log.Info().Int64("user_id", id).Msg("edit session closed, record deleted")
	}
	metrics.RecordsLoaded.Set(float64(c.st.store.Len()))
	c.recordOutcome(ctx, domain.OpDelete, domain.ResultApplied, id, nil, nil)
	c.log.Info().Int64("user_id", id).Msg("record deleted")
	return ports.Outcome{Applied: true, Prompt: prompt}, nil
}

// Register creates a new user remotely and appends it to the table. When
// the remote reply carries no id, the table is reloaded instead.
func (c *TableController) Register(ctx context.Context, user domain.NewUser) (*domain.Record, error) {
	user, err := user.Normalize()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.st.inFlight() {
		defer c.mu.Unlock()
		return nil, c.failLocked(ports.NoticeInvalidState, fmt.Errorf("%w: register while another request is in flight", domain.ErrInvalidState))
	}
	c.st.creating = true
	c.st.notice = nil
	c.mu.Unlock()

	created, err := c.createRemote(ctx, user)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.st.creating = false
		c.recordOutcome(ctx, domain.OpCreate, domain.ResultFailed, 0, nil, err)
		if errors.Is(err, domain.ErrDuplicateSubmission) {
			return nil, c.failLocked(ports.NoticeInvalidState, err)
		}
		return nil, c.failLocked(ports.NoticeRemoteError, fmt.Errorf("register %s: %w", user.Username, err))
	}

	var reloaded []domain.Record
	var reloadErr error
	if created.UserID == 0 {
		reloaded, reloadErr = c.gateway.FindAll(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.creating = false
	switch {
	case created.UserID != 0:
		c.st.store.UpsertLocal(*created)
	case reloadErr != nil:
		// The user exists remotely; only the local view is behind.
		_ = c.failLocked(ports.NoticeLoadError, &domain.LoadError{Err: reloadErr})
	default:
		c.st.store.Load(reloaded)
		c.dropStaleSessionLocked()
	}
	metrics.RecordsLoaded.Set(float64(c.st.store.Len()))
	c.recordOutcome(ctx, domain.OpCreate, domain.ResultApplied, created.UserID, nil, nil)
	c.log.Info().Int64("user_id", created.UserID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (c *TableController) createRemote(ctx context.Context, user domain.NewUser) (*domain.Record, error) {
	dup, err := c.guard.IsDuplicate(ctx, user.Username)
	if err != nil {
		c.log.Warn().Err(err).Str("username", user.Username).Msg("registration guard check failed, registering anyway")
	} else if dup {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateSubmission, user.Username)
	}

	created, err := c.gateway.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if markErr := c.guard.Mark(ctx, user.Username); markErr != nil {
		c.log.Warn().Err(markErr).Str("username", user.Username).Msg("failed to mark registration")
	}
	return created, nil
}

// DismissNotice clears the surfaced failure.
func (c *TableController) DismissNotice() {
	c.mu.Lock()
	c.st.notice = nil
	c.mu.Unlock()
}

// RowState reports the lifecycle state of record id.
func (c *TableController) RowState(id int64) domain.RowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.rowState(id)
}

// View returns a snapshot of the table, filtered by first name.
func (c *TableController) View(query string) ports.TableView {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.st.store.Filter(query)
	view := ports.TableView{
		Rows:     make([]ports.RowView, 0, len(records)),
		Loading:  c.st.loading,
		Saving:   c.st.saving,
		Deleting: c.st.deleting,
		Creating: c.st.creating,
	}
	for _, r := range records {
		view.Rows = append(view.Rows, ports.RowView{Record: r, State: c.st.rowState(r.UserID)})
	}
	if id, ok := c.st.session.TargetID(); ok {
		ev := &ports.EditingView{TargetID: id, Draft: c.st.session.Draft()}
		if resolved, err := c.st.session.Resolve(); err == nil {
			ev.Resolved = &resolved
		}
		view.Editing = ev
	}
	if c.st.notice != nil {
		n := *c.st.notice
		view.Notice = &n
	}
	return view
}

// saveCandidateLocked validates that the open session can be saved and
// resolves its candidate record. A stale session is torn down.
func (c *TableController) saveCandidateLocked() (int64, domain.Record, error) {
	id, ok := c.st.session.TargetID()
	if !ok {
		return 0, domain.Record{}, c.failLocked(ports.NoticeInvalidState, fmt.Errorf("%w: no record is being edited", domain.ErrInvalidState))
	}
	if c.st.inFlight() {
		return 0, domain.Record{}, c.failLocked(ports.NoticeInvalidState, fmt.Errorf("%w: another request is in flight", domain.ErrInvalidState))
	}
	if err := c.st.enter(id, domain.RowSaving); err != nil {
		return 0, domain.Record{}, c.failLocked(ports.NoticeInvalidState, err)
	}
	candidate, err := c.st.session.Resolve()
	if err != nil {
		if errors.Is(err, domain.ErrStaleTarget) {
			c.st.session.End()
			return 0, domain.Record{}, c.failLocked(ports.NoticeStaleTarget, err)
		}
		return 0, domain.Record{}, c.failLocked(ports.NoticeInvalidState, err)
	}
	return id, candidate, nil
}

func (c *TableController) deleteTargetLocked(id int64) (domain.Record, error) {
	if c.st.inFlight() {
		return domain.Record{}, c.failLocked(ports.NoticeInvalidState, fmt.Errorf("%w: another request is in flight", domain.ErrInvalidState))
	}
	rec, ok := c.st.store.Get(id)
	if !ok {
		return domain.Record{}, c.failLocked(ports.NoticeInvalidState, fmt.Errorf("delete: %w: %d", domain.ErrRecordNotFound, id))
	}
	if err := c.st.enter(id, domain.RowDeleting); err != nil {
		return domain.Record{}, c.failLocked(ports.NoticeInvalidState, err)
	}
	return rec, nil
}

func (c *TableController) requireEditingLocked() error {
	id, ok := c.st.session.TargetID()
	if !ok {
		return c.failLocked(ports.NoticeInvalidState, fmt.Errorf("%w: no record is being edited", domain.ErrInvalidState))
	}
	if cur := c.st.rowState(id); cur != domain.RowEditing {
		return c.failLocked(ports.NoticeInvalidState, fmt.Errorf("%w: record %d is %s", domain.ErrInvalidState, id, cur))
	}
	return nil
}

// dropStaleSessionLocked closes the session when its target left the store.
func (c *TableController) dropStaleSessionLocked() {
	id, ok := c.st.session.TargetID()
	if !ok {
		return
	}
	if _, exists := c.st.store.Get(id); exists {
		return
	}
	c.st.session.End()
	_ = c.failLocked(ports.NoticeStaleTarget, fmt.Errorf("%w: record %d", domain.ErrStaleTarget, id))
}

// failLocked surfaces err as the current notice and returns it.
func (c *TableController) failLocked(kind ports.NoticeKind, err error) error {
	c.st.notice = &ports.Notice{Kind: kind, Message: err.Error()}
	ev := c.log.Warn()
	if kind == ports.NoticeRemoteError || kind == ports.NoticeLoadError {
		ev = c.log.Error()
	}
	ev.Err(err).Str("notice", string(kind)).Msg("table action failed")
	return err
}

func (c *TableController) recordOutcome(ctx context.Context, op domain.MutationOp, result domain.MutationResult, id int64, changes domain.Draft, err error) {
	metrics.MutationsTotal.WithLabelValues(string(op), string(result)).Inc()
	entry := domain.AuditEntry{
		ID:       uuid.NewString(),
		Op:       op,
		Result:   result,
		RecordID: id,
		Operator: ports.OperatorFrom(ctx),
		Changes:  changes,
		At:       c.now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	c.audit.Record(entry)
}

type nopGuard struct{}

func (nopGuard) IsDuplicate(context.Context, string) (bool, error) { return false, nil }
func (nopGuard) Mark(context.Context, string) error                { return nil }

type nopRecorder struct{}

func (nopRecorder) Record(domain.AuditEntry) {}
