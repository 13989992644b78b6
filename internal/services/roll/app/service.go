package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/rolldice/internal/dice"
	"github.com/louisbranch/rolldice/internal/random"
	"github.com/louisbranch/rolldice/internal/services/roll/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/louisbranch/rolldice/internal/services/roll/app"

	// DefaultMaxDice bounds the dice rolled by one expression.
	DefaultMaxDice = 1000
)

// ErrEmptyExpression indicates nothing was left after stripping the keyword.
var ErrEmptyExpression = errors.New("dice expression is required")

// ErrTooManyDice indicates an expression rolls more dice than allowed.
var ErrTooManyDice = errors.New("too many dice in expression")

// ParseError wraps a syntax error with the text it refers to.
type ParseError struct {
	Expression string
	Offset     int
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse dice expression %q at offset %d", e.Expression, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Diagnostic renders the caret reply for the failing expression.
func (e *ParseError) Diagnostic() string {
	return RenderSyntaxError(e.Expression, e.Offset)
}

// Config controls request handling.
type Config struct {
	Prefixes []string
	MaxDice  int
}

// Request is one roll invocation.
type Request struct {
	// Text is the raw message, optionally starting with a command keyword.
	Text string
	// Seed replays a previous roll when set.
	Seed *int64
}

// Response is a successful evaluation.
type Response struct {
	Expression string
	Args       dice.Args
	Result     dice.Result
	Report     string
	Seed       int64
	SeedSource random.SeedSource
	// RollID is the history ID, zero when history is disabled or the write failed.
	RollID int64
}

// Service evaluates roll requests.
type Service struct {
	cfg     Config
	history storage.HistoryStore
	now     func() time.Time
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithHistory records successful rolls in store.
func WithHistory(store storage.HistoryStore) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithClock overrides the clock used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewService builds a Service, filling zero config fields with defaults.
func NewService(cfg Config, opts ...Option) *Service {
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = DefaultPrefixes
	}
	if cfg.MaxDice <= 0 {
		cfg.MaxDice = DefaultMaxDice
	}
	s := &Service{
		cfg:    cfg,
		now:    time.Now,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roll parses and evaluates one request.
//
// Errors are *ParseError, *dice.ValidationError, ErrEmptyExpression,
// ErrTooManyDice, or a seed generation failure. History write failures are
// logged and do not fail the roll.
func (s *Service) Roll(ctx context.Context, req Request) (Response, error) {
	ctx, span := s.tracer.Start(ctx, "roll.evaluate")
	defer span.End()

	resp, err := s.roll(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Response{}, err
	}
	span.SetAttributes(
		attribute.String("roll.expression", resp.Expression),
		attribute.Int("roll.dice", resp.Args.DiceCount()),
		attribute.Int("roll.sum", resp.Result.Sum),
		attribute.String("roll.seed_source", string(resp.SeedSource)),
	)
	return resp, nil
}

func (s *Service) roll(ctx context.Context, req Request) (Response, error) {
	expression := StripPrefix(req.Text, s.cfg.Prefixes)
	if expression == "" {
		return Response{}, ErrEmptyExpression
	}

	args, err := dice.Parse(expression)
	if err != nil {
		var syntaxErr *dice.SyntaxError
		if errors.As(err, &syntaxErr) {
			return Response{}, &ParseError{Expression: expression, Offset: syntaxErr.Offset, Err: err}
		}
		return Response{}, err
	}
	if count := args.DiceCount(); count > s.cfg.MaxDice {
		return Response{}, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyDice, count, s.cfg.MaxDice)
	}

	rng, seed, source, err := random.New(req.Seed)
	if err != nil {
		return Response{}, fmt.Errorf("seed roll: %w", err)
	}
	result, err := dice.Resolve(args, rng)
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Expression: expression,
		Args:       args,
		Result:     result,
		Report:     result.String(),
		Seed:       seed,
		SeedSource: source,
	}
	if s.history != nil {
		id, err := s.history.PutRoll(ctx, storage.RollRecord{
			Expression: expression,
			Report:     resp.Report,
			Sum:        result.Sum,
			TotalBonus: result.TotalBonus,
			Seed:       seed,
			SeedSource: string(source),
			CreatedAt:  s.now().UTC(),
		})
		if err != nil {
			log.Printf("record roll %q: %v", expression, err)
		} else {
			resp.RollID = id
		}
	}
	return resp, nil
}

// Reply evaluates text and renders the outcome as a chat reply. Failures are
// rendered too, so the returned string is always suitable to send back.
func (s *Service) Reply(ctx context.Context, text string) string {
	resp, err := s.Roll(ctx, Request{Text: text})
	if err == nil {
		return resp.Report
	}
	return ReplyForError(err)
}

// ReplyForError renders a Roll failure for a chat reply.
func ReplyForError(err error) string {
	var parseErr *ParseError
	var validationErr *dice.ValidationError
	switch {
	case errors.As(err, &parseErr):
		return parseErr.Diagnostic()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, ErrEmptyExpression):
		return "Usage: roll <expression>, e.g. roll 4d6d-1 + 2"
	case errors.Is(err, ErrTooManyDice):
		return "Error: " + strings.TrimSpace(err.Error())
	default:
		return "Error rolling dice: " + err.Error()
	}
}

// ListHistory returns up to limit recent rolls.
func (s *Service) ListHistory(ctx context.Context, limit int) ([]storage.RollRecord, error) {
	if s.history == nil {
		return nil, fmt.Errorf("roll history is not configured")
	}
	return s.history.ListRecentRolls(ctx, limit)
}

// HistoryEnabled reports whether rolls are recorded.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}
