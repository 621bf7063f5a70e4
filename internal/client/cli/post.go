package cli

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/common"
)

// EditDraft walks through the draft fields interactively. The draft is
// persisted after every session so an interrupted compose survives a
// restart; it is only cleared by 'discard' or a successful 'post'.
func (a *App) EditDraft(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	draft := models.Draft{}
	if d := a.store.Draft(); d != nil {
		draft = *d
		printlnFn("Resuming saved draft: " + draft.Title)
	}

	title, err := getSimpleText(a.reader, promptWithDefault("Title", draft.Title), os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		draft.Title = title
	}

	content, err := GetMultiline(a.reader, "Content:", os.Stdout)
	if err != nil {
		return err
	}
	if content != "" {
		draft.Content = content
	}

	category, err := getSimpleText(a.reader, promptWithDefault("Category (optional)", draft.Category), os.Stdout)
	if err != nil {
		return err
	}
	if category != "" {
		draft.Category = category
	}

	media, err := getSimpleText(a.reader, promptWithDefault("Media file path (optional)", draft.MediaPath), os.Stdout)
	if err != nil {
		return err
	}
	if media != "" {
		draft.MediaPath = media
	}

	a.store.SaveDraft(ctx, draft)
	printlnFn("Draft saved. Use 'post' to publish it.")
	return nil
}

func promptWithDefault(label, current string) string {
	if current == "" {
		return label
	}
	return label + " [" + current + "]"
}

// ShowDraft prints the saved draft, if any.
func (a *App) ShowDraft(ctx context.Context) error {
	d := a.store.Draft()
	if d == nil {
		printlnFn("No draft.")
		return nil
	}
	printlnFn("Title:    " + d.Title)
	printlnFn("Content:  " + d.Content)
	if d.Category != "" {
		printlnFn("Category: " + d.Category)
	}
	if d.MediaPath != "" {
		printlnFn("Media:    " + d.MediaPath)
	}
	return nil
}

// DiscardDraft drops the saved draft.
func (a *App) DiscardDraft(ctx context.Context) error {
	a.store.ClearDraft(ctx)
	printlnFn("Draft discarded")
	return nil
}

// PublishDraft submits the saved draft as a new post. The draft is cleared
// only after the server accepts it.
func (a *App) PublishDraft(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	d := a.store.Draft()
	if d == nil {
		printlnFn("No draft. Use 'draft' to compose one.")
		return nil
	}

	post, err := a.mineCtl.Create(ctx, *d)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			printlnFn("Title and content are required.")
			return nil
		}
		if errors.Is(err, common.ErrUnavailable) {
			printlnFn("Network error. Please try again. Your draft is safe.")
			return err
		}
		printlnFn("Failed to publish post. Your draft is safe.")
		return err
	}

	a.store.ClearDraft(ctx)
	printlnFn("Published post #" + strconv.FormatInt(post.ID, 10))
	return nil
}
