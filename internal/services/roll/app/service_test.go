package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/rolldice/internal/dice"
	"github.com/louisbranch/rolldice/internal/random"
	"github.com/louisbranch/rolldice/internal/services/roll/storage"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeHistory struct {
	records []storage.RollRecord
	putErr  error
}

func (f *fakeHistory) PutRoll(_ context.Context, record storage.RollRecord) (int64, error) {
	if f.putErr != nil {
		return 0, f.putErr
	}
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, record)
	return record.ID, nil
}

func (f *fakeHistory) ListRecentRolls(_ context.Context, limit int) ([]storage.RollRecord, error) {
	out := make([]storage.RollRecord, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func seed(value int64) *int64 {
	return &value
}

func TestRollEvaluatesWithSeed(t *testing.T) {
	svc := NewService(Config{})

	first, err := svc.Roll(context.Background(), Request{Text: "!roll 4d6d-1 + 2", Seed: seed(7)})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	second, err := svc.Roll(context.Background(), Request{Text: "4d6d-1 + 2", Seed: seed(7)})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if first.Report != second.Report {
		t.Fatalf("seeded reports differ:\n%s\n---\n%s", first.Report, second.Report)
	}
	if first.Expression != "4d6d-1 + 2" {
		t.Fatalf("expression = %q", first.Expression)
	}
	if first.Seed != 7 || first.SeedSource != random.SeedSourceClient {
		t.Fatalf("seed = %d (%s)", first.Seed, first.SeedSource)
	}
	if first.Result.TotalBonus != 2 {
		t.Fatalf("total bonus = %d, want 2", first.Result.TotalBonus)
	}
	if !strings.HasPrefix(first.Report, "4d6d-1: [~~") || !strings.Contains(first.Report, "\nTotal bonus: 2\nSum: ") {
		t.Fatalf("unexpected report: %q", first.Report)
	}
}

func TestRollServerSeed(t *testing.T) {
	resp, err := NewService(Config{}).Roll(context.Background(), Request{Text: "d20"})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if resp.SeedSource != random.SeedSourceServer {
		t.Fatalf("seed source = %s", resp.SeedSource)
	}
	if resp.Result.Sum < 1 || resp.Result.Sum > 20 {
		t.Fatalf("sum %d out of range", resp.Result.Sum)
	}
}

func TestRollParseError(t *testing.T) {
	_, err := NewService(Config{}).Roll(context.Background(), Request{Text: "roll 1d6x"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Offset != 3 || parseErr.Expression != "1d6x" {
		t.Fatalf("unexpected parse error: %+v", parseErr)
	}
	var syntaxErr *dice.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected wrapped *dice.SyntaxError, got %v", err)
	}
}

func TestRollValidationError(t *testing.T) {
	_, err := NewService(Config{}).Roll(context.Background(), Request{Text: "1d3d+4"})
	if !errors.Is(err, dice.ErrDropTooLarge) {
		t.Fatalf("expected drop error, got %v", err)
	}
}

func TestRollRejectsEmptyAndOversized(t *testing.T) {
	svc := NewService(Config{MaxDice: 10})
	if _, err := svc.Roll(context.Background(), Request{Text: "!roll   "}); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	if _, err := svc.Roll(context.Background(), Request{Text: "6d6 + 5d6"}); !errors.Is(err, ErrTooManyDice) {
		t.Fatalf("expected ErrTooManyDice, got %v", err)
	}
	if _, err := svc.Roll(context.Background(), Request{Text: "5d6 + 5d6 + 100"}); err != nil {
		t.Fatalf("expected limit to allow exactly 10 dice, got %v", err)
	}
}

func TestRollRecordsHistory(t *testing.T) {
	history := &fakeHistory{}
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	svc := NewService(Config{}, WithHistory(history), WithClock(func() time.Time { return now }))

	resp, err := svc.Roll(context.Background(), Request{Text: "2d8 + 1", Seed: seed(3)})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if resp.RollID != 1 {
		t.Fatalf("roll id = %d, want 1", resp.RollID)
	}
	if len(history.records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history.records))
	}
	rec := history.records[0]
	if rec.Expression != "2d8 + 1" || rec.Report != resp.Report || rec.Sum != resp.Result.Sum || rec.TotalBonus != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Seed != 3 || rec.SeedSource != "CLIENT" || !rec.CreatedAt.Equal(now) {
		t.Fatalf("unexpected record metadata: %+v", rec)
	}

	if _, err := svc.Roll(context.Background(), Request{Text: "1d6x"}); err == nil {
		t.Fatal("expected parse error")
	}
	if len(history.records) != 1 {
		t.Fatalf("failed rolls must not be recorded, got %d records", len(history.records))
	}

	list, err := svc.ListHistory(context.Background(), 5)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 listed roll, got %d", len(list))
	}
}

func TestRollHistoryFailureDoesNotFailRoll(t *testing.T) {
	svc := NewService(Config{}, WithHistory(&fakeHistory{putErr: errors.New("disk full")}))
	resp, err := svc.Roll(context.Background(), Request{Text: "d4"})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if resp.RollID != 0 {
		t.Fatalf("roll id = %d, want 0", resp.RollID)
	}
}

func TestListHistoryWithoutStore(t *testing.T) {
	svc := NewService(Config{})
	if svc.HistoryEnabled() {
		t.Fatal("expected history disabled")
	}
	if _, err := svc.ListHistory(context.Background(), 5); err == nil {
		t.Fatal("expected error without history store")
	}
}

func TestReply(t *testing.T) {
	svc := NewService(Config{MaxDice: 5})
	tcs := []struct {
		input string
		want  string
	}{
		{input: "!roll 2 + 3", want: "Total bonus: 5\nSum: 5"},
		{input: "!roll 1d6x", want: "Error parsing dice\n```\n| 1d6x\n|    ^\n```"},
		{input: "!roll 1d3d+4", want: "Error validating dice d3d+4: the drop is too large for this many rolls"},
		{input: "!roll", want: "Usage: roll <expression>, e.g. roll 4d6d-1 + 2"},
	}
	for _, tc := range tcs {
		if got := svc.Reply(context.Background(), tc.input); got != tc.want {
			t.Fatalf("Reply(%q) =\n%s\nwant\n%s", tc.input, got, tc.want)
		}
	}
	if got := svc.Reply(context.Background(), "6d6"); !strings.HasPrefix(got, "Error: too many dice") {
		t.Fatalf("unexpected limit reply: %q", got)
	}
}

func TestRollRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	svc := NewService(Config{}, WithTracerProvider(tp))

	if _, err := svc.Roll(context.Background(), Request{Text: "3d6 + 2", Seed: seed(1)}); err != nil {
		t.Fatalf("roll: %v", err)
	}
	if _, err := svc.Roll(context.Background(), Request{Text: "3d6 +"}); err == nil {
		t.Fatal("expected parse error")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs["roll.expression"] != "3d6 + 2" || attrs["roll.dice"] != "3" {
		t.Fatalf("unexpected span attributes: %v", attrs)
	}
	if spans[1].Status().Code != codes.Error {
		t.Fatalf("expected error status on failed roll, got %v", spans[1].Status())
	}
}
