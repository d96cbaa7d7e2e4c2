// Package cli implements the interactive query shell and the one-shot
// query commands.
package cli

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/okian/playerdex/internal/domain/query"
	"github.com/okian/playerdex/internal/domain/types"
	"github.com/okian/playerdex/pkg/logger"
)

// Command names understood by the shell.
const (
	CmdPlayer = "player"
	CmdUser   = "user"
	CmdTop    = "top"
	CmdTags   = "tags"
)

var quitWords = []string{"sair", "exit", "quit"}

// Querier answers catalog queries.
type Querier interface {
	SearchPrefix(ctx context.Context, prefix string) ([]types.PlayerView, error)
	SearchTags(ctx context.Context, tags []string) ([]types.PlayerView, error)
	Top(ctx context.Context, k int, position string) ([]types.PlayerView, error)
	UserRatings(ctx context.Context, userID string) ([]types.UserRatingView, error)
}

// Shell runs query commands against a Querier.
type Shell struct {
	q      Querier
	in     io.Reader
	out    io.Writer
	msg    io.Writer
	json   bool
	prompt string
	logger logger.Logger

	render *renderer
}

// New creates a Shell reading stdin and writing stdout.
func New(q Querier, opts ...Option) *Shell {
	s := &Shell{
		q:      q,
		in:     os.Stdin,
		out:    os.Stdout,
		prompt: DefaultPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.msg == nil {
		s.msg = s.out
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("cli")
	}
	s.render = newRenderer(s.out, s.json)
	return s
}

// Run reads commands line by line until a quit word, end of input or ctx
// cancellation. Failed commands are reported and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if slices.Contains(quitWords, strings.ToLower(line)) {
			return nil
		}
		if err := s.Exec(ctx, line); err != nil &&
			!errors.Is(err, ErrUnknownCommand) && !errors.Is(err, ErrUsage) {
			s.logger.Error(ctx, "command failed", logger.String("line", line), logger.Error(err))
			fmt.Fprintf(s.msg, "Error: %v\n", err)
		}
	}
}

// Exec parses and runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case CmdPlayer:
		return s.Player(ctx, rest)
	case CmdUser:
		return s.User(ctx, rest)
	case CmdTop:
		args := strings.Fields(rest)
		if len(args) < 2 {
			return s.usage("top <N> <position>")
		}
		k, err := strconv.Atoi(args[0])
		if err != nil {
			return s.usage("top <N> <position>")
		}
		return s.Top(ctx, k, args[1])
	case CmdTags:
		tags, err := SplitTags(rest)
		if err != nil {
			return s.usage("tags <tag> [<tag>...]")
		}
		return s.Tags(ctx, tags)
	default:
		fmt.Fprintln(s.msg, "Invalid command. Try again.")
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

// Player lists players whose name starts with prefix.
func (s *Shell) Player(ctx context.Context, prefix string) error {
	ps, err := s.q.SearchPrefix(ctx, prefix)
	if errors.Is(err, query.ErrNotFound) {
		fmt.Fprintf(s.msg, "No player found with prefix '%s'.\n", prefix)
		return s.emptyJSON()
	}
	if err != nil {
		return err
	}
	return s.render.Players(ps)
}

// User lists the ratings submitted by userID.
func (s *Shell) User(ctx context.Context, userID string) error {
	if userID == "" {
		return s.usage("user <id>")
	}
	rs, err := s.q.UserRatings(ctx, userID)
	if errors.Is(err, query.ErrNotFound) {
		fmt.Fprintf(s.msg, "User with ID '%s' not found.\n", userID)
		return s.emptyJSON()
	}
	if err != nil {
		return err
	}
	return s.render.UserRatings(rs)
}

// Top lists the k best rated players of position.
func (s *Shell) Top(ctx context.Context, k int, position string) error {
	ps, err := s.q.Top(ctx, k, position)
	if err != nil {
		return err
	}
	return s.render.Players(ps)
}

// Tags lists players matching every tag.
func (s *Shell) Tags(ctx context.Context, tags []string) error {
	if len(tags) == 0 {
		fmt.Fprintln(s.msg, "Invalid input. Please provide a list of tags.")
		return fmt.Errorf("%w: no tags", ErrUsage)
	}
	ps, err := s.q.SearchTags(ctx, tags)
	if errors.Is(err, query.ErrNotFound) {
		fmt.Fprintf(s.msg, "No player found with the given tags: %q\n", tags)
		return s.emptyJSON()
	}
	if err != nil {
		return err
	}
	return s.render.Players(ps)
}

func (s *Shell) usage(form string) error {
	fmt.Fprintf(s.msg, "Invalid command format. Use: %s\n", form)
	return fmt.Errorf("%w: %s", ErrUsage, form)
}

// emptyJSON keeps JSON output parseable when a query has no result.
func (s *Shell) emptyJSON() error {
	if !s.json {
		return nil
	}
	return s.render.encode([]struct{}{})
}

// SplitTags splits a tag list on whitespace. Tags containing spaces can be
// double-quoted, as in: tags Dribbler "Distance Shooter". A quote inside an
// unquoted tag is kept as is.
func SplitTags(s string) ([]string, error) {
	s = strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s))
	if s == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = ' '
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("split tags: %w", err)
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return slices.DeleteFunc(fields, func(f string) bool { return f == "" }), nil
}
