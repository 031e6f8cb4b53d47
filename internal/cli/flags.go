// Package cli implements the finder command line: subcommand dispatch, the
// filter-bar flags and text rendering of restaurant lists.
package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hungrymonkey/finder/internal/domain/entities"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

const maxStars = 5.0

// FilterFlags are the filter-bar flags shared by the listing subcommands
type FilterFlags struct {
	Price       string
	Stars       float64
	Category    string
	Term        string
	Window      string
	OpenNow     bool
	ImagesFirst bool
	JSON        bool
}

// Register adds the filter flags to fs
func (f *FilterFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Price, "price", "", "price tier: $, $$, $$$, $$$$ or 1-4")
	fs.Float64Var(&f.Stars, "stars", 0, "minimum rating (0-5)")
	fs.StringVar(&f.Category, "category", "", "category alias or title")
	fs.StringVar(&f.Term, "term", "", "keep restaurants whose name or category contains this text")
	fs.StringVar(&f.Window, "window", "", "time window: lunch, dinner or HH:MM-HH:MM")
	fs.BoolVar(&f.OpenNow, "open-now", false, "only restaurants open now")
	fs.BoolVar(&f.ImagesFirst, "images-first", false, "rank restaurants with photos first")
	fs.BoolVar(&f.JSON, "json", false, "print JSON instead of a table")
}

// Criteria converts the flags into filter criteria
func (f *FilterFlags) Criteria() (entities.FilterCriteria, error) {
	var c entities.FilterCriteria

	if f.Price != "" {
		tier, ok := entities.ParsePriceTier(f.Price)
		if !ok {
			return c, apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown price tier %q", f.Price))
		}
		c.Price = tier
	}

	if f.Stars != 0 {
		if f.Stars < 0 || f.Stars > maxStars {
			return c, apperrors.NewInvalidArgumentError("stars must be between 0 and 5")
		}
		stars := f.Stars
		c.MinRating = &stars
	}

	if f.Window != "" {
		w, err := entities.ParseTimeWindow(f.Window)
		if err != nil {
			return c, apperrors.NewInvalidArgumentError(err.Error())
		}
		c.Window = &w
	}

	c.Category = strings.TrimSpace(f.Category)
	c.Term = strings.TrimSpace(f.Term)
	c.OpenNow = f.OpenNow
	return c, nil
}
