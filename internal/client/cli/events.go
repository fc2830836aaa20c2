package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/eventaura/internal/client/client"
)

var filters = []string{"today", "currentWeek", "lastWeek", "currentMonth", "lastMonth"}

// List shows all events. Arguments are an optional filter keyword and free
// search text in any order, e.g. "list currentWeek go meetup".
func (a *App) List(ctx context.Context, args []string) error {
	var filter string
	var search []string
	for _, arg := range args {
		if filter == "" && isFilter(arg) {
			filter = arg
			continue
		}
		search = append(search, arg)
	}

	events, err := a.api.ListEvents(ctx, strings.Join(search, " "), filter)
	if err != nil {
		return err
	}
	a.printEvents(events)
	return nil
}

func isFilter(s string) bool {
	for _, f := range filters {
		if s == f {
			return true
		}
	}
	return false
}

func (a *App) My(ctx context.Context) error {
	events, err := a.api.MyEvents(ctx)
	if err != nil {
		return err
	}
	a.printEvents(events)
	return nil
}

func (a *App) Featured(ctx context.Context) error {
	events, err := a.api.FeaturedEvents(ctx)
	if err != nil {
		return err
	}
	a.printEvents(events)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	in, err := a.readEventInput(client.Event{})
	if err != nil {
		return err
	}

	id, err := a.api.AddEvent(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Event added: %s\n", id)
	return nil
}

func (a *App) Join(ctx context.Context, args []string) error {
	id, err := singleID(args, "join")
	if err != nil {
		return err
	}
	if err := a.api.JoinEvent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Successfully joined event")
	return nil
}

// Update edits one of the user's events. Empty answers keep current values.
func (a *App) Update(ctx context.Context, args []string) error {
	id, err := singleID(args, "update")
	if err != nil {
		return err
	}

	mine, err := a.api.MyEvents(ctx)
	if err != nil {
		return err
	}
	var current client.Event
	for _, ev := range mine {
		if ev.ID == id {
			current = ev
			break
		}
	}
	if current.ID == "" {
		return fmt.Errorf("event %s is not one of yours", id)
	}

	in, err := a.readEventInput(current)
	if err != nil {
		return err
	}
	if err := a.api.UpdateEvent(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Event updated successfully")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := singleID(args, "delete")
	if err != nil {
		return err
	}
	if err := a.api.DeleteEvent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Event deleted successfully")
	return nil
}

func singleID(args []string, cmd string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: %s <event id>", cmd)
	}
	return args[0], nil
}

func (a *App) readEventInput(current client.Event) (client.EventInput, error) {
	in := client.EventInput{
		Title:       current.Title,
		DateTime:    current.DateTime,
		Location:    current.Location,
		Description: current.Description,
	}

	ask := func(prompt string, dst *string) error {
		if *dst != "" {
			prompt = fmt.Sprintf("%s [%s]", prompt, *dst)
		}
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*dst = v
		}
		return nil
	}

	if err := ask("Title", &in.Title); err != nil {
		return in, err
	}
	if err := ask("Date and time (YYYY-MM-DDTHH:MM)", &in.DateTime); err != nil {
		return in, err
	}
	if err := ask("Location", &in.Location); err != nil {
		return in, err
	}

	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return in, err
	}
	if desc != "" {
		in.Description = desc
	}
	return in, nil
}

func (a *App) printEvents(events []client.Event) {
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tWHEN\tWHERE\tHOST\tGOING\t")
	for _, ev := range events {
		going := fmt.Sprintf("%d", ev.AttendeeCount)
		if ev.Joined != nil && *ev.Joined {
			going += " (you)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", ev.ID, ev.Title, ev.DateTime, ev.Location, ev.Name, going)
	}
	_ = tw.Flush()
}
