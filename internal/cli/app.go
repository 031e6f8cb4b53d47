package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hungrymonkey/finder/internal/application/services"
	"github.com/hungrymonkey/finder/internal/domain/entities"
	"github.com/hungrymonkey/finder/internal/infrastructure/observability"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

const defaultPollInterval = 500 * time.Millisecond

// ErrUsage is returned when the arguments do not name a valid command
var ErrUsage = errors.New("usage")

// Finder is what the commands need from the restaurant service
type Finder interface {
	services.RestaurantSource
	GetDetails(ctx context.Context, id string) (*entities.Restaurant, error)
	VerifyHours(ctx context.Context, id string) (*entities.VerificationReceipt, error)
	GetProfile(ctx context.Context) (*entities.UserProfile, error)
}

// App runs finder subcommands against a Finder
type App struct {
	finder   Finder
	out      io.Writer
	errOut   io.Writer
	in       io.Reader
	debounce time.Duration
	poll     time.Duration
}

// NewApp creates an App printing results to out and diagnostics to errOut.
// in feeds the interactive command.
func NewApp(finder Finder, in io.Reader, out, errOut io.Writer, debounce time.Duration) *App {
	return &App{
		finder:   finder,
		out:      out,
		errOut:   errOut,
		in:       in,
		debounce: debounce,
		poll:     defaultPollInterval,
	}
}

// Usage prints the command summary
func (a *App) Usage() {
	fmt.Fprint(a.errOut, `Usage: finder <command> [flags] [args]

Commands:
  cached               list the cached restaurants
  search <term>        search by term (also used as the location)
  details <id>         show one restaurant (requires a token)
  verify <id>          request a phone verification of the hours (requires a token)
  profile              show the authenticated user's profile
  interactive          read search input from stdin, one line per keystroke burst

Run "finder <command> -h" for the flags of a command.
`)
}

// Run executes the command named by args[0]
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Usage()
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "cached":
		return a.runCached(ctx, rest)
	case "search":
		return a.runSearch(ctx, rest)
	case "details":
		return a.runDetails(ctx, rest)
	case "verify":
		return a.runVerify(ctx, rest)
	case "profile":
		return a.runProfile(ctx, rest)
	case "interactive":
		return a.runInteractive(ctx, rest)
	case "help", "-h", "--help":
		a.Usage()
		return nil
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n", cmd)
		a.Usage()
		return ErrUsage
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *App) runCached(ctx context.Context, args []string) error {
	var filters FilterFlags
	fs := a.flagSet("cached")
	filters.Register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	criteria, err := filters.Criteria()
	if err != nil {
		return err
	}

	list, err := a.finder.GetCached(ctx)
	if err != nil {
		return err
	}
	return a.renderFiltered(list, criteria, filters, services.NoticeNoResults)
}

func (a *App) runSearch(ctx context.Context, args []string) error {
	var filters FilterFlags
	var location string
	fs := a.flagSet("search")
	filters.Register(fs)
	fs.StringVar(&location, "location", "", "location to search (defaults to the term)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	criteria, err := filters.Criteria()
	if err != nil {
		return err
	}

	params := entities.SearchParams{
		Term:     strings.Join(fs.Args(), " "),
		Location: location,
		Price:    criteria.Price,
	}
	if criteria.OpenNow {
		open := true
		params.OpenNow = &open
	}

	list, err := a.finder.Search(ctx, params)
	if err != nil {
		return err
	}
	return a.renderFiltered(list, criteria, filters, "No restaurants match your search")
}

func (a *App) renderFiltered(list []entities.Restaurant, criteria entities.FilterCriteria, filters FilterFlags, emptyNotice string) error {
	engine := services.NewFilterEngine(services.WithImagesFirst(filters.ImagesFirst))
	out := engine.Apply(list, criteria)

	if filters.JSON {
		return RenderList(a.out, out, true)
	}
	switch {
	case len(list) == 0:
		fmt.Fprintln(a.out, emptyNotice)
		return nil
	case len(out) == 0:
		fmt.Fprintf(a.out, "None of %d restaurants match the filters\n", len(list))
		return nil
	}
	return RenderList(a.out, out, false)
}

func (a *App) runDetails(ctx context.Context, args []string) error {
	var asJSON bool
	fs := a.flagSet("details")
	fs.BoolVar(&asJSON, "json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return apperrors.NewInvalidArgumentError("details takes exactly one restaurant id")
	}

	r, err := a.finder.GetDetails(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	return RenderRestaurant(a.out, r, asJSON)
}

func (a *App) runVerify(ctx context.Context, args []string) error {
	var wait time.Duration
	fs := a.flagSet("verify")
	fs.DurationVar(&wait, "wait", 0, "poll the restaurant until its hours are verified, up to this long")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return apperrors.NewInvalidArgumentError("verify takes exactly one restaurant id")
	}
	id := fs.Arg(0)

	receipt, err := a.finder.VerifyHours(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Verification requested for %s (call %s, status %s)\n", id, orDash(receipt.CallID), orDash(receipt.Status))

	if wait <= 0 {
		return nil
	}

	r, err := a.waitVerified(ctx, id, wait)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Hours verified: %s\n", formatHours(r.Hours))
	return nil
}

// waitVerified re-fetches the restaurant until its hours are verified
func (a *App) waitVerified(ctx context.Context, id string, wait time.Duration) (*entities.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	ticker := time.NewTicker(a.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("hours of %s not verified within %s: %w", id, wait, ctx.Err())
		case <-ticker.C:
		}

		r, err := a.finder.GetDetails(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			return nil, err
		}
		if r.Hours != nil && r.Hours.Verified {
			return r, nil
		}
		observability.LoggerFromContext(ctx).Debug().Str("restaurant_id", id).Msg("Hours not verified yet")
	}
}

func (a *App) runProfile(ctx context.Context, args []string) error {
	var asJSON bool
	fs := a.flagSet("profile")
	fs.BoolVar(&asJSON, "json", false, "print the full JSON payload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := a.finder.GetProfile(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(a.out, p.Raw)
	}
	if p.Message != "" {
		fmt.Fprintln(a.out, p.Message)
	}
	fmt.Fprintf(a.out, "User:  %s\n", orDash(p.UserID))
	fmt.Fprintf(a.out, "Email: %s\n", orDash(p.Email))
	return nil
}
