package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/internportal/internal/client/client"
	"github.com/dmitrijs2005/internportal/internal/client/models"
)

var getMultiline = GetMultiline

func (a *App) readEntryID(prompt string) (int64, error) {
	raw, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", raw)
	}
	return id, nil
}

func (a *App) AddEntry(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	date, err := getSimpleText(a.reader, "Date (yyyy-mm-dd, empty for today)", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	e, err := a.entryService.Add(ctx, models.NewEntry{Title: title, Content: content, EntryDate: date})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Entry %d saved\n", e.ID)
	return nil
}

// List prints the server's entries, or the cached copy while the server
// is unreachable.
func (a *App) List(ctx context.Context) error {
	entries, err := a.entryService.List(ctx)
	if errors.Is(err, client.ErrUnavailable) {
		a.setMode(ModeOffline)
		entries, err = a.entryService.Cached(ctx)
		if err == nil {
			fmt.Fprintln(a.out, "Server unavailable, showing cached entries")
		}
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries yet")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, e.Line())
	}
	return nil
}

func (a *App) Attach(ctx context.Context) error {
	id, err := a.readEntryID("Entry id")
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "File path", a.out)
	if err != nil {
		return err
	}

	if _, err := a.entryService.Attach(ctx, id, path); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "File uploaded")
	return nil
}

func (a *App) Download(ctx context.Context) error {
	id, err := a.readEntryID("Entry id")
	if err != nil {
		return err
	}
	url, err := a.entryService.DownloadURL(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, url)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := a.readEntryID("Enter entry id to delete")
	if err != nil {
		return err
	}
	if err := a.entryService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
