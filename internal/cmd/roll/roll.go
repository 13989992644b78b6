// Package roll parses CLI configuration and evaluates dice expressions from
// arguments or stdin.
package roll

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	platformcmd "github.com/louisbranch/rolldice/internal/platform/cmd"
	"github.com/louisbranch/rolldice/internal/services/roll/app"
	"github.com/louisbranch/rolldice/internal/services/roll/storage/sqlite"
)

// Config holds roll command configuration.
type Config struct {
	Prefixes []string `env:"ROLLDICE_PREFIXES" envDefault:"!roll,/roll,roll,dnd" envSeparator:","`
	MaxDice  int      `env:"ROLLDICE_MAX_DICE" envDefault:"1000"`
	DBPath   string   `env:"ROLLDICE_DB_PATH"`

	// Seed replays a roll when set; empty draws a fresh seed per expression.
	Seed string

	// Expression is the positional arguments joined with spaces.
	Expression string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return parseConfig(fs, args, nil)
}

func parseConfig(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg, environ); err != nil {
		return Config{}, err
	}

	prefixes := strings.Join(cfg.Prefixes, ",")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum dice per expression")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite roll history path (empty disables history)")
	fs.StringVar(&prefixes, "prefixes", prefixes, "comma-separated command keywords to strip")
	fs.StringVar(&cfg.Seed, "seed", "", "replay seed")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Prefixes = splitList(prefixes)
	cfg.Expression = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if cfg.Seed != "" {
		if _, err := strconv.ParseInt(cfg.Seed, 10, 64); err != nil {
			return Config{}, fmt.Errorf("parse seed %q: %w", cfg.Seed, err)
		}
	}
	return cfg, nil
}

// Run evaluates cfg.Expression, or every non-blank line of in when no
// expression was given, writing one reply per expression to out.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	opts := []app.Option{}
	if strings.TrimSpace(cfg.DBPath) != "" {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open roll history: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close roll history: %v", err)
			}
		}()
		opts = append(opts, app.WithHistory(store))
	}
	svc := app.NewService(app.Config{Prefixes: cfg.Prefixes, MaxDice: cfg.MaxDice}, opts...)

	var seed *int64
	if cfg.Seed != "" {
		value, err := strconv.ParseInt(cfg.Seed, 10, 64)
		if err != nil {
			return fmt.Errorf("parse seed %q: %w", cfg.Seed, err)
		}
		seed = &value
	}

	if cfg.Expression != "" {
		return writeReply(out, reply(ctx, svc, cfg.Expression, seed))
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := writeReply(out, reply(ctx, svc, line, seed)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read expressions: %w", err)
	}
	return nil
}

func reply(ctx context.Context, svc *app.Service, text string, seed *int64) string {
	resp, err := svc.Roll(ctx, app.Request{Text: text, Seed: seed})
	if err != nil {
		return app.ReplyForError(err)
	}
	return resp.Report
}

func writeReply(out io.Writer, text string) error {
	if _, err := fmt.Fprintln(out, text); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
