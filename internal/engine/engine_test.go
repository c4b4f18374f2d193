package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	assignrepo "leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/internal/crm"
	"leadwatch_backend/internal/events"
	srcrepo "leadwatch_backend/internal/sources/repository"
	"leadwatch_backend/platform/apperr"
	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"
)

type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	rows     map[int64]*assignrepo.LeadAssignment
	inserts  []assignrepo.InsertPendingParams
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int64]*assignrepo.LeadAssignment)}
}

func (s *fakeStore) InsertPending(_ context.Context, params assignrepo.InsertPendingParams) (*assignrepo.LeadAssignment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, false, s.failWith
	}
	for _, row := range s.rows {
		if row.ExternalLeadID == params.ExternalLeadID && row.Status == assignrepo.StatusPending {
			return nil, false, nil
		}
	}

	s.nextID++
	s.inserts = append(s.inserts, params)
	row := &assignrepo.LeadAssignment{
		ID:             s.nextID,
		ExternalLeadID: params.ExternalLeadID,
		LeadName:       params.LeadName,
		LeadPhone:      params.LeadPhone,
		AgentID:        params.AgentID,
		AgentName:      params.AgentName,
		AgentEmail:     params.AgentEmail,
		SourceName:     params.SourceName,
		AssignedAt:     params.AssignedAt,
		TimerExpiresAt: params.TimerExpiresAt,
		Status:         assignrepo.StatusPending,
	}
	s.rows[row.ID] = row
	return row, true, nil
}

func (s *fakeStore) HasPending(_ context.Context, externalLeadID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return false, s.failWith
	}
	for _, row := range s.rows {
		if row.ExternalLeadID == externalLeadID && row.Status == assignrepo.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*assignrepo.LeadAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, apperr.NotFound("assignment not found")
	}
	copied := *row
	return &copied, nil
}

func (s *fakeStore) ListExpiredPending(_ context.Context, now time.Time) ([]assignrepo.LeadAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []assignrepo.LeadAssignment
	for _, row := range s.rows {
		if row.Status == assignrepo.StatusPending && row.TimerExpiresAt.Before(now) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkCalled(_ context.Context, id int64, callDetectedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok || row.Status != assignrepo.StatusPending {
		return false, nil
	}
	row.Status = assignrepo.StatusCalled
	row.CallDetectedAt = &callDetectedAt
	return true, nil
}

func (s *fakeStore) MarkReassigned(_ context.Context, id int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok || row.Status != assignrepo.StatusPending {
		return false, nil
	}
	row.Status = assignrepo.StatusReassigned
	row.EscalatedAt = &at
	return true, nil
}

type fakeDirectory struct {
	mu sync.Mutex

	leads    map[string][]crm.Lead
	calls    map[string][]crm.Call
	callsErr error

	tags      []string
	tagErr    error
	unassigns []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		leads: make(map[string][]crm.Lead),
		calls: make(map[string][]crm.Call),
	}
}

func (d *fakeDirectory) ListAssignedLeads(_ context.Context, sel crm.Selector) ([]crm.Lead, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.leads[sel.Label()], nil
}

func (d *fakeDirectory) ListCallsSince(_ context.Context, externalID string, _ time.Time) ([]crm.Call, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.callsErr != nil {
		return nil, d.callsErr
	}
	return d.calls[externalID], nil
}

func (d *fakeDirectory) AddTag(_ context.Context, externalID, tag string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tagErr != nil {
		return d.tagErr
	}
	d.tags = append(d.tags, externalID+":"+tag)
	return nil
}

func (d *fakeDirectory) ClearAssignment(_ context.Context, externalID, poolID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unassigns = append(d.unassigns, externalID+":"+poolID)
	return nil
}

type fakeRegistry struct {
	sources []srcrepo.MonitoredSource
	err     error
}

func (r *fakeRegistry) ListEnabled(context.Context) ([]srcrepo.MonitoredSource, error) {
	return r.sources, r.err
}

// recordingBus captures every published event inline so tests can assert on
// them without racing the async delivery of the real bus.
type recordingBus struct {
	mu       sync.Mutex
	events   []events.Event
	syncErr  error
	handlers map[string][]events.Handler
}

func newRecordingBus() *recordingBus {
	return &recordingBus{handlers: make(map[string][]events.Handler)}
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return b.syncErr
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *recordingBus) named(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, ev := range b.events {
		if ev.EventName() == name {
			out = append(out, ev)
		}
	}
	return out
}

type harness struct {
	engine    *Engine
	store     *fakeStore
	registry  *fakeRegistry
	directory *fakeDirectory
	bus       *recordingBus
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.DefaultTimerMinutes == 0 {
		cfg.DefaultTimerMinutes = 30
	}
	if cfg.EscalationMode == "" {
		cfg.EscalationMode = config.EscalationModeTag
	}
	if cfg.EscalationTag == "" {
		cfg.EscalationTag = "response-overdue"
	}

	h := &harness{
		store:     newFakeStore(),
		registry:  &fakeRegistry{},
		directory: newFakeDirectory(),
		bus:       newRecordingBus(),
	}
	h.engine = New(h.store, h.registry, h.directory, h.bus, cfg, logger.New("test"))
	return h
}

func assignedLead(id, agentID string) crm.Lead {
	return crm.Lead{
		ExternalID: id,
		Name:       "Lead " + id,
		Phone:      "+14155550100",
		Assignee:   &crm.Agent{ID: agentID, Name: "Agent " + agentID, Email: agentID + "@example.com"},
	}
}

func TestDetectStaticPoolOpensAssignment(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-1")}

	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}

	if len(h.store.inserts) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(h.store.inserts))
	}
	params := h.store.inserts[0]
	if params.ExternalLeadID != "lead-1" || params.AgentID != "agent-1" {
		t.Fatalf("unexpected insert params: %+v", params)
	}
	if params.SourceName != "pool:pool-1" {
		t.Fatalf("expected source label pool:pool-1, got %q", params.SourceName)
	}
	if got := params.TimerExpiresAt.Sub(params.AssignedAt); got != 30*time.Minute {
		t.Fatalf("expected 30m timer, got %v", got)
	}

	opened := h.bus.named("engine.assignment.opened")
	if len(opened) != 1 {
		t.Fatalf("expected 1 AssignmentOpened event, got %d", len(opened))
	}
}

func TestDetectStaticPoolNoPoolConfigured(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}
	if len(h.store.inserts) != 0 {
		t.Fatalf("expected no inserts, got %d", len(h.store.inserts))
	}
}

func TestDetectSkipsUnassignedLeads(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{
		{ExternalID: "lead-1", Name: "Nobody Home"},
		assignedLead("lead-2", "agent-1"),
	}

	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}

	if len(h.store.inserts) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(h.store.inserts))
	}
	if h.store.inserts[0].ExternalLeadID != "lead-2" {
		t.Fatalf("expected lead-2 inserted, got %q", h.store.inserts[0].ExternalLeadID)
	}
}

func TestDetectUnchangedAssigneeOpensOnce(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-1")}

	for i := 0; i < 3; i++ {
		if err := h.engine.DetectStaticPool(context.Background()); err != nil {
			t.Fatalf("pass %d: DetectStaticPool() error = %v", i, err)
		}
	}

	if len(h.store.inserts) != 1 {
		t.Fatalf("expected 1 insert across repeated polls, got %d", len(h.store.inserts))
	}
}

func TestDetectAssigneeChangeWithPendingRowDoesNotDuplicate(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-1")}

	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}

	// Reassignment while the first timer is still pending.
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-2")}
	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}

	if len(h.store.inserts) != 1 {
		t.Fatalf("expected pending row to block second insert, got %d inserts", len(h.store.inserts))
	}
}

func TestDetectReopensAfterTerminalState(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-1")}

	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}
	if ok, err := h.store.MarkCalled(context.Background(), 1, time.Now()); err != nil || !ok {
		t.Fatalf("MarkCalled() = %v, %v", ok, err)
	}

	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-2")}
	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}

	if len(h.store.inserts) != 2 {
		t.Fatalf("expected new cycle after terminal state, got %d inserts", len(h.store.inserts))
	}
}

func TestDetectStoreErrorEndsCycle(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-1")}
	h.store.failWith = errors.New("connection refused")

	if err := h.engine.DetectStaticPool(context.Background()); err == nil {
		t.Fatal("expected error from failing store")
	}
}

func TestDetectSourcesUsesPerSourceTimer(t *testing.T) {
	h := newHarness(t, nil)
	h.registry.sources = []srcrepo.MonitoredSource{
		{Name: "webforms", TimerMinutes: 10, Enabled: true},
		{Name: "walk-ins", TimerMinutes: 45, Enabled: true},
	}
	h.directory.leads["source:webforms"] = []crm.Lead{assignedLead("lead-1", "agent-1")}
	h.directory.leads["source:walk-ins"] = []crm.Lead{assignedLead("lead-2", "agent-2")}

	if err := h.engine.DetectSources(context.Background()); err != nil {
		t.Fatalf("DetectSources() error = %v", err)
	}

	if len(h.store.inserts) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(h.store.inserts))
	}
	byLead := make(map[string]assignrepo.InsertPendingParams)
	for _, p := range h.store.inserts {
		byLead[p.ExternalLeadID] = p
	}
	if got := byLead["lead-1"].TimerExpiresAt.Sub(byLead["lead-1"].AssignedAt); got != 10*time.Minute {
		t.Fatalf("webforms timer = %v, want 10m", got)
	}
	if got := byLead["lead-2"].TimerExpiresAt.Sub(byLead["lead-2"].AssignedAt); got != 45*time.Minute {
		t.Fatalf("walk-ins timer = %v, want 45m", got)
	}
	if byLead["lead-1"].SourceName != "webforms" {
		t.Fatalf("expected source name webforms, got %q", byLead["lead-1"].SourceName)
	}
}

func expiredRow(h *harness, t *testing.T, externalID string) assignrepo.LeadAssignment {
	t.Helper()

	assigned := time.Now().Add(-2 * time.Hour)
	row, inserted, err := h.store.InsertPending(context.Background(), assignrepo.InsertPendingParams{
		ExternalLeadID: externalID,
		LeadName:       "Lead " + externalID,
		LeadPhone:      "+14155550100",
		AgentID:        "agent-1",
		AgentName:      "Agent One",
		AgentEmail:     "agent-1@example.com",
		SourceName:     "webforms",
		AssignedAt:     assigned,
		TimerExpiresAt: assigned.Add(30 * time.Minute),
	})
	if err != nil || !inserted {
		t.Fatalf("seed InsertPending() = %v, %v", inserted, err)
	}
	return *row
}

func TestResolveCallEvidenceWins(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")

	later := time.Now().Add(-10 * time.Minute)
	earlier := time.Now().Add(-50 * time.Minute)
	h.directory.calls["lead-1"] = []crm.Call{
		{Timestamp: later, Direction: "outbound"},
		{Timestamp: earlier, Direction: "outbound"},
	}

	if err := h.engine.ResolveExpired(context.Background()); err != nil {
		t.Fatalf("ResolveExpired() error = %v", err)
	}

	got := h.store.rows[row.ID]
	if got.Status != assignrepo.StatusCalled {
		t.Fatalf("status = %q, want called", got.Status)
	}
	if got.CallDetectedAt == nil || !got.CallDetectedAt.Equal(earlier) {
		t.Fatalf("call_detected_at = %v, want earliest call %v", got.CallDetectedAt, earlier)
	}
	if len(h.directory.tags) != 0 {
		t.Fatalf("expected no tag attempts on called lead, got %v", h.directory.tags)
	}
	if escalated := h.bus.named("engine.lead.escalated"); len(escalated) != 0 {
		t.Fatalf("expected no escalation events, got %d", len(escalated))
	}
	if called := h.bus.named("engine.lead.called"); len(called) != 1 {
		t.Fatalf("expected 1 LeadCalled event, got %d", len(called))
	}
}

func TestResolveNoCallEscalates(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")

	if err := h.engine.ResolveExpired(context.Background()); err != nil {
		t.Fatalf("ResolveExpired() error = %v", err)
	}

	got := h.store.rows[row.ID]
	if got.Status != assignrepo.StatusReassigned {
		t.Fatalf("status = %q, want reassigned", got.Status)
	}
	if len(h.directory.tags) != 1 || h.directory.tags[0] != "lead-1:response-overdue" {
		t.Fatalf("tag attempts = %v, want exactly one response-overdue tag", h.directory.tags)
	}
	escalated := h.bus.named("engine.lead.escalated")
	if len(escalated) != 1 {
		t.Fatalf("expected 1 LeadEscalated event, got %d", len(escalated))
	}
	ev := escalated[0].(events.LeadEscalated)
	if ev.AgentEmail != "agent-1@example.com" || ev.TimerMinutes != 30 {
		t.Fatalf("unexpected escalation payload: %+v", ev)
	}
}

func TestResolveReassignModeClearsAssignment(t *testing.T) {
	h := newHarness(t, &config.Config{
		EscalationMode: config.EscalationModeReassign,
		ReturnPoolID:   "pool-return",
	})
	expiredRow(h, t, "lead-1")

	if err := h.engine.ResolveExpired(context.Background()); err != nil {
		t.Fatalf("ResolveExpired() error = %v", err)
	}

	if len(h.directory.unassigns) != 1 || h.directory.unassigns[0] != "lead-1:pool-return" {
		t.Fatalf("unassign attempts = %v, want lead-1 back to pool-return", h.directory.unassigns)
	}
	if len(h.directory.tags) != 0 {
		t.Fatalf("expected no tag attempts in reassign mode, got %v", h.directory.tags)
	}
}

func TestResolveTagFailureStillSettlesRow(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")
	h.directory.tagErr = errors.New("directory down")

	if err := h.engine.ResolveExpired(context.Background()); err != nil {
		t.Fatalf("ResolveExpired() error = %v", err)
	}

	if got := h.store.rows[row.ID].Status; got != assignrepo.StatusReassigned {
		t.Fatalf("status = %q, want reassigned despite tag failure", got)
	}
	if escalated := h.bus.named("engine.lead.escalated"); len(escalated) != 1 {
		t.Fatalf("expected notification attempt despite tag failure, got %d", len(escalated))
	}
}

func TestResolveNotificationFailureStillSettlesRow(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")
	h.bus.syncErr = errors.New("smtp unreachable")

	if err := h.engine.ResolveExpired(context.Background()); err != nil {
		t.Fatalf("ResolveExpired() error = %v", err)
	}

	if got := h.store.rows[row.ID].Status; got != assignrepo.StatusReassigned {
		t.Fatalf("status = %q, want reassigned despite notification failure", got)
	}
}

func TestResolveCallLookupFailureLeavesRowPending(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")
	h.directory.callsErr = errors.New("429 too many requests")

	if err := h.engine.ResolveExpired(context.Background()); err != nil {
		t.Fatalf("ResolveExpired() error = %v", err)
	}

	if got := h.store.rows[row.ID].Status; got != assignrepo.StatusPending {
		t.Fatalf("status = %q, want pending until calls can be checked", got)
	}
	if len(h.directory.tags) != 0 {
		t.Fatalf("expected no escalation while call history is unknown, got %v", h.directory.tags)
	}
}

func TestResolveRowFailureDoesNotBlockOthers(t *testing.T) {
	h := newHarness(t, nil)
	expiredRow(h, t, "lead-1")
	row2 := expiredRow(h, t, "lead-2")

	// lead-1 escalates, lead-2 was called.
	h.directory.calls["lead-2"] = []crm.Call{{Timestamp: time.Now().Add(-5 * time.Minute)}}

	if err := h.engine.ResolveExpired(context.Background()); err != nil {
		t.Fatalf("ResolveExpired() error = %v", err)
	}

	if got := h.store.rows[row2.ID].Status; got != assignrepo.StatusCalled {
		t.Fatalf("lead-2 status = %q, want called", got)
	}
	if len(h.directory.tags) != 1 {
		t.Fatalf("expected exactly one escalation tag, got %v", h.directory.tags)
	}
}

func TestResolveAlreadySettledRowIsANoOp(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")

	// Another pass settled the row between listing and resolving.
	settled := *h.store.rows[row.ID]
	if ok, err := h.store.MarkCalled(context.Background(), row.ID, time.Now()); err != nil || !ok {
		t.Fatalf("MarkCalled() = %v, %v", ok, err)
	}

	h.engine.resolveRow(context.Background(), settled)

	if got := h.store.rows[row.ID].Status; got != assignrepo.StatusCalled {
		t.Fatalf("status = %q, want called to stand", got)
	}
}

type fakeResolutionScheduler struct {
	mu        sync.Mutex
	scheduled []int64
	err       error
}

func (s *fakeResolutionScheduler) ScheduleAssignmentResolution(_ context.Context, assignmentID int64, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.scheduled = append(s.scheduled, assignmentID)
	return nil
}

func TestDetectSchedulesResolutionTask(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-1")}
	sched := &fakeResolutionScheduler{}
	h.engine.SetResolutionScheduler(sched)

	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}

	if len(sched.scheduled) != 1 || sched.scheduled[0] != 1 {
		t.Fatalf("scheduled = %v, want [1]", sched.scheduled)
	}
}

func TestDetectSchedulingFailureIsNonFatal(t *testing.T) {
	h := newHarness(t, &config.Config{StaticPoolID: "pool-1"})
	h.directory.leads["pool:pool-1"] = []crm.Lead{assignedLead("lead-1", "agent-1")}
	h.engine.SetResolutionScheduler(&fakeResolutionScheduler{err: errors.New("redis down")})

	if err := h.engine.DetectStaticPool(context.Background()); err != nil {
		t.Fatalf("DetectStaticPool() error = %v", err)
	}
	if len(h.store.inserts) != 1 {
		t.Fatalf("expected assignment opened despite enqueue failure, got %d inserts", len(h.store.inserts))
	}
}

func TestResolveAssignmentSettlesPendingRow(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")

	if err := h.engine.ResolveAssignment(context.Background(), row.ID); err != nil {
		t.Fatalf("ResolveAssignment() error = %v", err)
	}
	if got := h.store.rows[row.ID].Status; got != assignrepo.StatusReassigned {
		t.Fatalf("status = %q, want reassigned", got)
	}
}

func TestResolveAssignmentIgnoresSettledAndMissingRows(t *testing.T) {
	h := newHarness(t, nil)
	row := expiredRow(h, t, "lead-1")
	if ok, err := h.store.MarkCalled(context.Background(), row.ID, time.Now()); err != nil || !ok {
		t.Fatalf("MarkCalled() = %v, %v", ok, err)
	}

	if err := h.engine.ResolveAssignment(context.Background(), row.ID); err != nil {
		t.Fatalf("ResolveAssignment() on settled row error = %v", err)
	}
	if err := h.engine.ResolveAssignment(context.Background(), 999); err != nil {
		t.Fatalf("ResolveAssignment() on missing row error = %v", err)
	}
	if len(h.directory.tags) != 0 {
		t.Fatalf("expected no escalation attempts, got %v", h.directory.tags)
	}
}

func TestLastSeenMap(t *testing.T) {
	m := newLastSeenMap()

	if !m.Changed("lead-1", "agent-1") {
		t.Fatal("first sighting should read as changed")
	}
	m.Observe("lead-1", "agent-1")
	if m.Changed("lead-1", "agent-1") {
		t.Fatal("unchanged assignee should not read as changed")
	}
	if !m.Changed("lead-1", "agent-2") {
		t.Fatal("new assignee should read as changed")
	}
}
