package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	ShowFeed(ctx context.Context) error
	ShowMine(ctx context.Context) error
	ListPosts(ctx context.Context) error
	LoadMore(ctx context.Context) error
	SetSearch(ctx context.Context, args []string) error
	SetFilterField(ctx context.Context, name string, args []string) error
	ShowFilters(ctx context.Context) error

	Like(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	ShowComments(ctx context.Context, args []string) error
	SaveMedia(ctx context.Context, args []string) error

	EditDraft(ctx context.Context) error
	ShowDraft(ctx context.Context) error
	DiscardDraft(ctx context.Context) error
	PublishDraft(ctx context.Context) error

	ShowProfile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	RefreshProfile(ctx context.Context) error
	UploadAvatar(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: signup, login, exit"
	helpLoggedIn  = "Available commands: feed, mine, (l)ist, more, search, category, visibility, tag, media, sort, filters, " +
		"like, comment, comments, edit, delete, save-media, draft, draft-show, discard, post, " +
		"profile, edit-profile, refresh-profile, avatar, whoami, logout, exit"
)

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. It exits on scanner EOF or "exit"/"quit".
// Handlers report their own errors; the loop just keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("Welcome to ProConnect CLI (type 'help' for commands)")

	for {
		printlnFn(fmt.Sprintf("pc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "feed":
			_ = a.ShowFeed(ctx)

		case "mine":
			_ = a.ShowMine(ctx)

		case "l", "list":
			_ = a.ListPosts(ctx)

		case "more":
			_ = a.LoadMore(ctx)

		case "search":
			_ = a.SetSearch(ctx, args)

		case "category", "visibility", "tag", "media", "sort":
			_ = a.SetFilterField(ctx, cmd, args)

		case "filters":
			_ = a.ShowFilters(ctx)

		case "like":
			_ = a.Like(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "edit":
			_ = a.Edit(ctx, args)

		case "comment":
			_ = a.Comment(ctx, args)

		case "comments":
			_ = a.ShowComments(ctx, args)

		case "save-media":
			_ = a.SaveMedia(ctx, args)

		case "draft":
			_ = a.EditDraft(ctx)

		case "draft-show":
			_ = a.ShowDraft(ctx)

		case "discard":
			_ = a.DiscardDraft(ctx)

		case "post":
			_ = a.PublishDraft(ctx)

		case "profile":
			_ = a.ShowProfile(ctx)

		case "edit-profile":
			_ = a.EditProfile(ctx)

		case "refresh-profile":
			_ = a.RefreshProfile(ctx)

		case "avatar":
			_ = a.UploadAvatar(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
