package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dpetrovs/proconnect/internal/client/api"
	"github.com/dpetrovs/proconnect/internal/client/feed"
	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/filex"
	"github.com/dpetrovs/proconnect/internal/netx"
)

func (a *App) requireLogin() bool {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return false
	}
	return true
}

// ShowFeed switches to everyone's posts, refreshes, and prints the view.
func (a *App) ShowFeed(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.current = a.feedCtl
	return a.refreshAndList(ctx)
}

// ShowMine switches to the user's own posts, refreshes, and prints the view.
func (a *App) ShowMine(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.current = a.mineCtl
	return a.refreshAndList(ctx)
}

func (a *App) refreshAndList(ctx context.Context) error {
	if err := a.current.Refresh(ctx); err != nil {
		printlnFn(a.current.Err())
		return err
	}
	return a.ListPosts(ctx)
}

// ListPosts prints the current page-limited view without re-fetching.
func (a *App) ListPosts(ctx context.Context) error {
	if msg := a.current.Err(); msg != "" {
		printlnFn(msg)
		return nil
	}

	posts := a.current.Visible()
	if len(posts) == 0 {
		printlnFn("There are no posts to show.")
		return nil
	}

	for _, p := range posts {
		a.printPost(p)
	}
	if a.current.HasMore() {
		printlnFn("-- more available, type 'more' --")
	}
	return nil
}

func (a *App) printPost(p models.Post) {
	author := p.Username
	if author == "" {
		author = "User"
	}
	line := fmt.Sprintf("#%d  %s  %s  %s", p.ID, author, p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Title)
	if p.LikesCount > 0 {
		line += fmt.Sprintf("  [%d likes]", p.LikesCount)
	}
	if n := len(a.current.Comments(p.ID)); n > 0 {
		line += fmt.Sprintf("  [%d comments]", n)
	}
	switch p.Media() {
	case models.MediaImage:
		line += "  (image)"
	case models.MediaVideo:
		line += "  (video)"
	}
	printlnFn(line)

	content := strings.TrimSpace(p.Content)
	if len(content) > 200 {
		content = content[:200] + "..."
	}
	if content != "" {
		printlnFn("    " + content)
	}
}

// LoadMore reveals the next page.
func (a *App) LoadMore(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	grew, err := a.current.LoadMore(ctx)
	if err != nil {
		printlnFn(a.current.Err())
		return err
	}
	if !grew {
		printlnFn("Nothing more to load.")
		return nil
	}
	return a.ListPosts(ctx)
}

// SetSearch sets the free-text filter; no argument clears it.
func (a *App) SetSearch(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}
	a.current.SetSearch(strings.Join(args, " "))
	return a.refreshAndList(ctx)
}

// SetFilterField handles the category/visibility/tag/media/sort commands.
// A "-" argument (or none) clears the filter.
func (a *App) SetFilterField(ctx context.Context, name string, args []string) error {
	if !a.requireLogin() {
		return nil
	}

	value := ""
	if len(args) > 0 && args[0] != "-" {
		value = args[0]
	}

	switch name {
	case "category":
		a.current.SetCategory(value)
	case "visibility":
		a.current.SetVisibility(value)
	case "tag":
		a.current.SetTag(value)
	case "media":
		switch value {
		case "", string(feed.MediaAll):
			a.current.SetMedia(feed.MediaAll)
		case string(feed.MediaImages):
			a.current.SetMedia(feed.MediaImages)
		case string(feed.MediaVideos):
			a.current.SetMedia(feed.MediaVideos)
		default:
			printlnFn("Usage: media <All|Images|Videos>")
			return nil
		}
	case "sort":
		switch value {
		case string(feed.SortOldest):
			a.current.SetSort(feed.SortOldest)
		case "", string(feed.SortNewest):
			a.current.SetSort(feed.SortNewest)
		default:
			printlnFn("Usage: sort <newest|oldest>")
			return nil
		}
	}
	return a.refreshAndList(ctx)
}

// ShowFilters prints the active filter inputs.
func (a *App) ShowFilters(ctx context.Context) error {
	f := a.current.Filter()
	printlnFn(fmt.Sprintf("search=%q category=%q visibility=%q tag=%q media=%q sort=%q",
		f.Search, f.Category, f.Visibility, f.Tag, f.Media, f.Sort))
	return nil
}

func parsePostID(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Like applies an optimistic like to the given post.
func (a *App) Like(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}
	id, ok := parsePostID(args)
	if !ok {
		printlnFn("Usage: like <id>")
		return nil
	}

	if err := a.current.Like(ctx, id); err != nil {
		printlnFn("Failed to like post:", err.Error())
		return err
	}
	if p, ok := a.current.Get(id); ok {
		printlnFn(fmt.Sprintf("Liked post #%d (%d likes)", id, p.LikesCount))
	}
	return nil
}

// Delete removes a post after an interactive confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}
	id, ok := parsePostID(args)
	if !ok {
		printlnFn("Usage: delete <id>")
		return nil
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete post #%d? (y/N)", id), os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.current.Delete(ctx, id); err != nil {
		printlnFn("Failed to delete post.")
		return err
	}
	printlnFn("Post deleted")
	return nil
}

// Edit prompts for replacement title/content and applies the edit. Empty
// input keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}
	id, ok := parsePostID(args)
	if !ok {
		printlnFn("Usage: edit <id>")
		return nil
	}
	post, found := a.current.Get(id)
	if !found {
		printlnFn("Post not found:", args[0])
		return nil
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("New title [%s]", post.Title), os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "New content (empty to keep current):", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		title = post.Title
	}
	if content == "" {
		content = post.Content
	}

	if err := a.current.Edit(ctx, id, api.PostUpdate{Title: title, Content: content}); err != nil {
		printlnFn("Failed to update post.")
		return err
	}
	printlnFn("Post updated")
	return nil
}

// Comment appends a local-only comment to a post.
func (a *App) Comment(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}
	id, ok := parsePostID(args)
	if !ok || len(args) < 2 {
		printlnFn("Usage: comment <id> <text>")
		return nil
	}

	username := ""
	if u := a.store.CurrentUser(); u != nil {
		username = u.Username
	}
	if _, err := a.current.AddComment(id, username, strings.Join(args[1:], " ")); err != nil {
		printlnFn("Post not found:", args[0])
		return nil
	}
	printlnFn("Comment added (local only)")
	return nil
}

// ShowComments lists the local comments for a post.
func (a *App) ShowComments(ctx context.Context, args []string) error {
	id, ok := parsePostID(args)
	if !ok {
		printlnFn("Usage: comments <id>")
		return nil
	}
	comments := a.current.Comments(id)
	if len(comments) == 0 {
		printlnFn("No comments.")
		return nil
	}
	for _, c := range comments {
		printlnFn(fmt.Sprintf("%s  %s: %s", c.CreatedAt.Local().Format("15:04"), c.Username, c.Content))
	}
	return nil
}

// SaveMedia downloads a post's attachment into the data directory.
func (a *App) SaveMedia(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}
	id, ok := parsePostID(args)
	if !ok {
		printlnFn("Usage: save-media <id>")
		return nil
	}
	post, found := a.current.Get(id)
	if !found {
		printlnFn("Post not found:", args[0])
		return nil
	}
	if post.MediaURL == "" {
		printlnFn("Post has no media.")
		return nil
	}

	dir, err := filex.EnsureDir(filepath.Join(a.dataDir, "media"))
	if err != nil {
		printlnFn("Failed to prepare media directory:", err.Error())
		return err
	}
	dest, err := netx.DownloadToDir(ctx, post.MediaURL, dir)
	if err != nil {
		printlnFn("Download failed:", err.Error())
		return err
	}
	printlnFn("Saved to " + dest)
	return nil
}
