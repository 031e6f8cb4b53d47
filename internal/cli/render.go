package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hungrymonkey/finder/internal/application/services"
	"github.com/hungrymonkey/finder/internal/domain/entities"
	apperrors "github.com/hungrymonkey/finder/pkg/errors"
)

// RenderList prints restaurants as a table, or as a JSON array when asJSON
func RenderList(w io.Writer, list []entities.Restaurant, asJSON bool) error {
	if asJSON {
		return writeJSON(w, list)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRATING\tPRICE\tCATEGORIES\tHOURS\tPHOTO\tADDRESS")
	for i := range list {
		r := &list[i]
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Name,
			r.Rating,
			orDash(string(r.Price)),
			orDash(strings.Join(r.CategoryTitles(), ", ")),
			formatHours(r.Hours),
			yesNo(r.HasPhoto()),
			orDash(r.AddressLine()),
		)
	}
	return tw.Flush()
}

// RenderRestaurant prints the details view of one restaurant
func RenderRestaurant(w io.Writer, r *entities.Restaurant, asJSON bool) error {
	if asJSON {
		return writeJSON(w, r)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", r.Name)
	fmt.Fprintf(tw, "ID\t%s\n", r.ID)
	fmt.Fprintf(tw, "Rating\t%.1f\n", r.Rating)
	fmt.Fprintf(tw, "Price\t%s\n", orDash(string(r.Price)))
	fmt.Fprintf(tw, "Categories\t%s\n", orDash(strings.Join(r.CategoryTitles(), ", ")))
	fmt.Fprintf(tw, "Phone\t%s\n", orDash(r.Phone))
	fmt.Fprintf(tw, "Address\t%s\n", orDash(r.AddressLine()))
	fmt.Fprintf(tw, "Open now\t%s\n", yesNo(r.IsOpen))
	fmt.Fprintf(tw, "Hours\t%s\n", formatHours(r.Hours))
	for _, p := range r.Photos {
		fmt.Fprintf(tw, "Photo\t%s\n", p)
	}
	return tw.Flush()
}

// viewJSON is the JSON form of a session view
type viewJSON struct {
	Query       string                  `json:"query,omitempty"`
	Total       int                     `json:"total"`
	Notice      string                  `json:"notice,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Criteria    entities.FilterCriteria `json:"criteria"`
	Restaurants []entities.Restaurant   `json:"restaurants"`
}

// RenderView prints a settled session view: any error or notice, a summary
// line and the filtered list.
func RenderView(w io.Writer, v services.SessionView, asJSON bool) error {
	if asJSON {
		return writeJSON(w, viewJSON{
			Query:       v.Query,
			Total:       v.Total,
			Notice:      v.Notice,
			Error:       apperrors.UserMessage(v.Err),
			Criteria:    v.Criteria,
			Restaurants: v.Restaurants,
		})
	}

	if v.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", apperrors.UserMessage(v.Err))
	}
	if v.Notice != "" {
		fmt.Fprintln(w, v.Notice)
	}

	label := "cached restaurants"
	if v.Query != "" {
		label = fmt.Sprintf("results for %q", v.Query)
	}
	fmt.Fprintf(w, "Showing %d of %d %s\n", len(v.Restaurants), v.Total, label)
	if len(v.Restaurants) == 0 {
		return nil
	}
	return RenderList(w, v.Restaurants, false)
}

func formatHours(h *entities.OperatingHours) string {
	if h == nil {
		return "-"
	}
	var s string
	switch {
	case h.HasTimes:
		s = h.Open.String() + "-" + h.Close.String()
	case h.TimeOpen != "" || h.TimeClosed != "":
		s = orDash(h.TimeOpen) + " to " + orDash(h.TimeClosed)
	default:
		s = "-"
	}
	if h.Verified {
		s += " (verified)"
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
