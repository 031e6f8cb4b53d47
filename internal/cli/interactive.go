package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hungrymonkey/finder/internal/application/services"
	"github.com/hungrymonkey/finder/internal/domain/entities"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

const interactiveHelp = `Type to search; each line is one state of the search box.
Commands:
  :search <term>     search now
  :price <tier|off>  :stars <n|off>  :category <name|off>
  :window <lunch|dinner|HH:MM-HH:MM|off>  :filter <text|off>  :open <on|off>
  :reset             clear all filters
  :show              print the current view
  :quit
`

// runInteractive feeds stdin lines through a debounced search session.
// Every settled view is printed.
func (a *App) runInteractive(ctx context.Context, args []string) error {
	var filters FilterFlags
	fs := a.flagSet("interactive")
	filters.Register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	criteria, err := filters.Criteria()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	show := func(v services.SessionView) {
		if v.Loading {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := RenderView(a.out, v, filters.JSON); err != nil {
			fmt.Fprintf(a.errOut, "render: %v\n", err)
		}
	}

	session := services.NewSearchSession(a.finder,
		services.WithDebounce(a.debounce),
		services.WithFilterEngine(services.NewFilterEngine(services.WithImagesFirst(filters.ImagesFirst))),
		services.WithUpdates(show),
	)
	defer session.Close()
	session.SetCriteria(criteria)

	if !filters.JSON {
		fmt.Fprint(a.errOut, interactiveHelp)
	}

	// A failed cached load is shown in the view and the session stays usable.
	_ = session.LoadCached(ctx)

	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, ":") {
			session.Input(line)
			continue
		}

		name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
		arg = strings.TrimSpace(arg)
		switch name {
		case "quit", "q":
			session.Flush()
			return nil
		case "search":
			// Errors land in the view printed by the update callback.
			_ = session.Submit(ctx, arg)
		case "show":
			show(session.View())
		case "reset":
			session.SetCriteria(entities.FilterCriteria{})
			show(session.View())
		default:
			if err := applyCommand(session, name, arg); err != nil {
				fmt.Fprintf(a.errOut, "%s\n", apperrors.UserMessage(err))
				continue
			}
			show(session.View())
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	session.Flush()
	return nil
}

// applyCommand edits the session's criteria for one filter command
func applyCommand(session *services.SearchSession, name, arg string) error {
	off := arg == "" || strings.EqualFold(arg, "off")

	switch name {
	case "price":
		tier := entities.PriceUnset
		if !off {
			var ok bool
			if tier, ok = entities.ParsePriceTier(arg); !ok {
				return apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown price tier %q", arg))
			}
		}
		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.Price = tier })

	case "stars":
		var minRating *float64
		if !off {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil || v < 0 || v > maxStars {
				return apperrors.NewInvalidArgumentError("stars must be between 0 and 5")
			}
			minRating = &v
		}
		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.MinRating = minRating })

	case "category":
		if off {
			arg = ""
		}
		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.Category = arg })

	case "filter":
		if off {
			arg = ""
		}
		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.Term = arg })

	case "window":
		var w *entities.TimeWindow
		if !off {
			parsed, err := entities.ParseTimeWindow(arg)
			if err != nil {
				return apperrors.NewInvalidArgumentError(err.Error())
			}
			w = &parsed
		}
		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.Window = w })

	case "open":
		open := !off && !strings.EqualFold(arg, "no")
		session.UpdateCriteria(func(c *entities.FilterCriteria) { c.OpenNow = open })

	default:
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown command :%s", name))
	}
	return nil
}
