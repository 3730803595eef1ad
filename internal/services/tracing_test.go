package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
)

// The otel global tracer delegates only to the first provider ever installed,
// so tests share one provider and swap span recorders in and out instead of
// replacing the provider per test.
var testTracerProvider = sync.OnceValue(func() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
})

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := testTracerProvider()
	tp.RegisterSpanProcessor(rec)
	t.Cleanup(func() { tp.UnregisterSpanProcessor(rec) })
	return rec
}

func TestSendBotMessage_RecordsSpan(t *testing.T) {
	rec := recordSpans(t)

	dbc := testCtx()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: uuid.New(), Kind: domain.RoomKindAi}
	bot := newTestBot(room.OrgID, domain.BotKindChat)
	d := NewDispatcher(testLogger(t), &fakeMessageRepo{}, &fakeRoomRepo{}, &fakePublisher{})

	if _, err := d.SendBotMessage(dbc, room, bot, "hello", nil); err != nil {
		t.Fatalf("SendBotMessage: %v", err)
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if got := spans[0].Name(); got != "Dispatcher.SendBotMessage" {
		t.Fatalf("span name = %q", got)
	}
}

func TestSendBotMessage_SpanRecordsFailure(t *testing.T) {
	rec := recordSpans(t)

	dbc := testCtx()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: uuid.New(), Kind: domain.RoomKindAi}
	bot := newTestBot(room.OrgID, domain.BotKindChat)

	msgs := &fakeMessageRepo{createErr: fmt.Errorf("insert failed")}
	d := NewDispatcher(testLogger(t), msgs, &fakeRoomRepo{}, &fakePublisher{})

	if _, err := d.SendBotMessage(dbc, room, bot, "hello", nil); err == nil {
		t.Fatal("expected persistence failure to propagate")
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if evs := spans[0].Events(); len(evs) == 0 {
		t.Fatal("failed dispatch should record the error on its span")
	}
}
