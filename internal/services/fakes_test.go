package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/platform/openai"
	"github.com/crewdesk/crewdesk-backend/internal/realtime"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func testCtx() dbctx.Context {
	return dbctx.New(context.Background())
}

func ptrUUID(v uuid.UUID) *uuid.UUID { return &v }

func ptrTime(v time.Time) *time.Time { return &v }

func ptrInt(v int) *int { return &v }

func newTestBot(orgID uuid.UUID, kind string) *domain.Bot {
	return &domain.Bot{
		ID:      uuid.New(),
		OrgID:   orgID,
		Kind:    kind,
		Name:    kind + "-bot",
		ActorID: ptrUUID(uuid.New()),
	}
}

// --- repo fakes ---

type fakeMessageRepo struct {
	created   []*domain.ChatMessage
	byID      map[uuid.UUID]*domain.ChatMessage
	recent    []*domain.ChatMessage
	lastSince time.Time
	lastLimit int
	createErr error
}

func (f *fakeMessageRepo) Create(dbc dbctx.Context, row *domain.ChatMessage) (*domain.ChatMessage, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	f.created = append(f.created, row)
	return row, nil
}

func (f *fakeMessageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	return f.byID[id], nil
}

func (f *fakeMessageRepo) ListRecentSince(dbc dbctx.Context, roomID uuid.UUID, since time.Time, limit int) ([]*domain.ChatMessage, error) {
	f.lastSince = since
	f.lastLimit = limit
	return f.recent, nil
}

type roomTouch struct {
	id uuid.UUID
	at time.Time
}

type fakeRoomRepo struct {
	byID       map[uuid.UUID]*domain.ChatRoom
	groupRooms map[uuid.UUID]*domain.ChatRoom
	aiRoom     *domain.ChatRoom
	created    []*domain.ChatRoom
	touched    []roomTouch
	touchErr   error
}

func (f *fakeRoomRepo) Create(dbc dbctx.Context, row *domain.ChatRoom) (*domain.ChatRoom, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.created = append(f.created, row)
	return row, nil
}

func (f *fakeRoomRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	return f.byID[id], nil
}

func (f *fakeRoomRepo) GetGroupRoomByWorkspace(dbc dbctx.Context, workspaceID uuid.UUID) (*domain.ChatRoom, error) {
	return f.groupRooms[workspaceID], nil
}

func (f *fakeRoomRepo) FindAiRoomWithMember(dbc dbctx.Context, orgID uuid.UUID, actorID uuid.UUID) (*domain.ChatRoom, error) {
	return f.aiRoom, nil
}

func (f *fakeRoomRepo) TouchUpdatedAt(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touched = append(f.touched, roomTouch{id: id, at: at})
	return nil
}

type memberAdd struct {
	roomID  uuid.UUID
	actorID uuid.UUID
	role    string
}

type fakeMemberRepo struct {
	existing map[string]bool
	added    []memberAdd
}

func memberKey(roomID, actorID uuid.UUID) string {
	return roomID.String() + "/" + actorID.String()
}

func (f *fakeMemberRepo) Exists(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID) (bool, error) {
	return f.existing[memberKey(roomID, actorID)], nil
}

func (f *fakeMemberRepo) CreateIfAbsent(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID, role string) (bool, error) {
	key := memberKey(roomID, actorID)
	if f.existing[key] {
		return false, nil
	}
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[key] = true
	f.added = append(f.added, memberAdd{roomID: roomID, actorID: actorID, role: role})
	return true, nil
}

type fakeActorRepo struct {
	byUser map[uuid.UUID]*domain.Actor
}

func (f *fakeActorRepo) Create(dbc dbctx.Context, row *domain.Actor) (*domain.Actor, error) {
	return row, nil
}

func (f *fakeActorRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Actor, error) {
	return nil, nil
}

func (f *fakeActorRepo) GetByUser(dbc dbctx.Context, orgID uuid.UUID, userID uuid.UUID) (*domain.Actor, error) {
	return f.byUser[userID], nil
}

func (f *fakeActorRepo) GetByBot(dbc dbctx.Context, orgID uuid.UUID, botID uuid.UUID) (*domain.Actor, error) {
	return nil, nil
}

type fakeUserRepo struct {
	byID   map[uuid.UUID]*domain.User
	marked []uuid.UUID
}

func (f *fakeUserRepo) Create(dbc dbctx.Context, row *domain.User) (*domain.User, error) {
	return row, nil
}

func (f *fakeUserRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) MarkLoggedIn(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeTaskRepo struct {
	byID            map[uuid.UUID]*domain.WorkspaceTask
	recentCompleted []*domain.WorkspaceTask
}

func (f *fakeTaskRepo) Create(dbc dbctx.Context, row *domain.WorkspaceTask) (*domain.WorkspaceTask, error) {
	return row, nil
}

func (f *fakeTaskRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.WorkspaceTask, error) {
	return f.byID[id], nil
}

func (f *fakeTaskRepo) ListRecentCompletedByWorkspace(dbc dbctx.Context, workspaceID uuid.UUID, limit int) ([]*domain.WorkspaceTask, error) {
	return f.recentCompleted, nil
}

type fakeItemRepo struct {
	byID map[uuid.UUID]*domain.WorkspaceItem
}

func (f *fakeItemRepo) Create(dbc dbctx.Context, row *domain.WorkspaceItem) (*domain.WorkspaceItem, error) {
	return row, nil
}

func (f *fakeItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.WorkspaceItem, error) {
	return f.byID[id], nil
}

type fakeWorkspaceRepo struct {
	byID map[uuid.UUID]*domain.Workspace
}

func (f *fakeWorkspaceRepo) Create(dbc dbctx.Context, row *domain.Workspace) (*domain.Workspace, error) {
	return row, nil
}

func (f *fakeWorkspaceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Workspace, error) {
	return f.byID[id], nil
}

type fakeCommentRepo struct {
	byID map[uuid.UUID]*domain.TaskComment
}

func (f *fakeCommentRepo) Create(dbc dbctx.Context, row *domain.TaskComment) (*domain.TaskComment, error) {
	return row, nil
}

func (f *fakeCommentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.TaskComment, error) {
	return f.byID[id], nil
}

// --- service fakes ---

type publishedEvent struct {
	group string
	event realtime.Event
	data  any
}

type fakePublisher struct {
	events    []publishedEvent
	failOn    map[realtime.Event]error
	receivers int
}

func (p *fakePublisher) Publish(ctx context.Context, group string, event realtime.Event, data any) (int, error) {
	if err := p.failOn[event]; err != nil {
		return 0, err
	}
	p.events = append(p.events, publishedEvent{group: group, event: event, data: data})
	return p.receivers, nil
}

func (p *fakePublisher) byEvent(event realtime.Event) []publishedEvent {
	var out []publishedEvent
	for _, e := range p.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

type fakeAI struct {
	text    string
	textErr error

	jsonOut map[string]any
	jsonErr error

	chat    string
	chatErr error

	lastSystem string
	lastUser   string
	lastTurns  []openai.ChatMessage
}

func (f *fakeAI) GenerateText(ctx context.Context, system string, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.text, f.textErr
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.jsonOut, f.jsonErr
}

func (f *fakeAI) GenerateChat(ctx context.Context, system string, turns []openai.ChatMessage) (string, error) {
	f.lastSystem = system
	f.lastTurns = turns
	return f.chat, f.chatErr
}

type fakeAIClients struct {
	client openai.Client
	err    error
}

func (f *fakeAIClients) ForOrg(dbc dbctx.Context, orgID uuid.UUID) (openai.Client, error) {
	return f.client, f.err
}

type scheduledJob struct {
	job jobs.Job
	at  time.Time
}

type fakeScheduler struct {
	enqueued  []jobs.Job
	scheduled []scheduledJob
}

func (f *fakeScheduler) EnqueueNow(ctx context.Context, job jobs.Job) error {
	f.enqueued = append(f.enqueued, job)
	return nil
}

func (f *fakeScheduler) ScheduleAt(ctx context.Context, job jobs.Job, at time.Time) error {
	f.scheduled = append(f.scheduled, scheduledJob{job: job, at: at})
	return nil
}

type fakeBots struct {
	bot *domain.Bot
	err error
}

func (f *fakeBots) GetBot(dbc dbctx.Context, orgID uuid.UUID, kind string) (*domain.Bot, error) {
	return f.bot, f.err
}

func (f *fakeBots) SelectBotByContent(dbc dbctx.Context, orgID uuid.UUID, content string) (*domain.Bot, error) {
	return f.bot, f.err
}

func (f *fakeBots) SelectBotRandom(dbc dbctx.Context, orgID uuid.UUID) (*domain.Bot, error) {
	return f.bot, f.err
}

type fakeMembership struct {
	ensured []memberAdd
	err     error
}

func (f *fakeMembership) EnsureMember(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.ensured = append(f.ensured, memberAdd{roomID: roomID, actorID: actorID})
	return nil
}

type fakeResolver struct {
	room *domain.ChatRoom
	err  error

	requested []uuid.UUID
}

func (f *fakeResolver) GetOrCreateDmRoom(dbc dbctx.Context, orgID uuid.UUID, targetUserID uuid.UUID, bot *domain.Bot) (*domain.ChatRoom, error) {
	f.requested = append(f.requested, targetUserID)
	return f.room, f.err
}

type fakeContextBuilder struct {
	turns []openai.ChatMessage
	err   error
}

func (f *fakeContextBuilder) BuildContext(dbc dbctx.Context, roomID uuid.UUID, botActorID uuid.UUID) ([]openai.ChatMessage, error) {
	return f.turns, f.err
}

type sentMessage struct {
	room    *domain.ChatRoom
	bot     *domain.Bot
	content string
	replyTo *uuid.UUID
}

type fakeDispatcher struct {
	sent      []sentMessage
	sendErr   error
	typing    []bool
	botErrors []string
}

func (f *fakeDispatcher) SendBotMessage(dbc dbctx.Context, room *domain.ChatRoom, bot *domain.Bot, content string, replyTo *uuid.UUID) (*domain.ChatMessage, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, sentMessage{room: room, bot: bot, content: content, replyTo: replyTo})
	return &domain.ChatMessage{ID: uuid.New(), RoomID: room.ID, Content: content}, nil
}

func (f *fakeDispatcher) WithTyping(ctx context.Context, room *domain.ChatRoom, bot *domain.Bot, fn func() error) error {
	f.typing = append(f.typing, true)
	defer func() { f.typing = append(f.typing, false) }()
	return fn()
}

func (f *fakeDispatcher) PublishBotError(ctx context.Context, room *domain.ChatRoom, message string) {
	f.botErrors = append(f.botErrors, message)
}
