package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which handler the REPL dispatched to.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string, args ...string) error {
	if len(args) > 0 {
		name = name + " " + strings.Join(args, " ")
	}
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) Signup(ctx context.Context) error { return s.record("signup") }
func (s *stubExec) Login(ctx context.Context) error  { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error { return s.record("logout") }
func (s *stubExec) WhoAmI(ctx context.Context) error { return s.record("whoami") }

func (s *stubExec) ShowFeed(ctx context.Context) error  { return s.record("feed") }
func (s *stubExec) ShowMine(ctx context.Context) error  { return s.record("mine") }
func (s *stubExec) ListPosts(ctx context.Context) error { return s.record("list") }
func (s *stubExec) LoadMore(ctx context.Context) error  { return s.record("more") }
func (s *stubExec) SetSearch(ctx context.Context, args []string) error {
	return s.record("search", args...)
}
func (s *stubExec) SetFilterField(ctx context.Context, name string, args []string) error {
	return s.record(name, args...)
}
func (s *stubExec) ShowFilters(ctx context.Context) error { return s.record("filters") }

func (s *stubExec) Like(ctx context.Context, args []string) error { return s.record("like", args...) }
func (s *stubExec) Delete(ctx context.Context, args []string) error {
	return s.record("delete", args...)
}
func (s *stubExec) Edit(ctx context.Context, args []string) error { return s.record("edit", args...) }
func (s *stubExec) Comment(ctx context.Context, args []string) error {
	return s.record("comment", args...)
}
func (s *stubExec) ShowComments(ctx context.Context, args []string) error {
	return s.record("comments", args...)
}
func (s *stubExec) SaveMedia(ctx context.Context, args []string) error {
	return s.record("save-media", args...)
}

func (s *stubExec) EditDraft(ctx context.Context) error    { return s.record("draft") }
func (s *stubExec) ShowDraft(ctx context.Context) error    { return s.record("draft-show") }
func (s *stubExec) DiscardDraft(ctx context.Context) error { return s.record("discard") }
func (s *stubExec) PublishDraft(ctx context.Context) error { return s.record("post") }

func (s *stubExec) ShowProfile(ctx context.Context) error    { return s.record("profile") }
func (s *stubExec) EditProfile(ctx context.Context) error    { return s.record("edit-profile") }
func (s *stubExec) RefreshProfile(ctx context.Context) error { return s.record("refresh-profile") }
func (s *stubExec) UploadAvatar(ctx context.Context, args []string) error {
	return s.record("avatar", args...)
}

func runLines(t *testing.T, stub *stubExec, lines ...string) []string {
	t.Helper()

	var out []string
	origPrintln := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, fmt.Sprintln(a...))
		return 0, nil
	}
	defer func() { printlnFn = origPrintln }()

	input := strings.Join(lines, "\n") + "\n"
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), stub, func() string { return "" }, scanner)
	return out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	stub := &stubExec{loggedIn: true}
	runLines(t, stub,
		"login",
		"feed",
		"mine",
		"l",
		"list",
		"more",
		"search golang jobs",
		"category tech",
		"sort oldest",
		"filters",
		"like 3",
		"delete 4",
		"edit 5",
		"comment 3 nice post",
		"comments 3",
		"save-media 7",
		"draft",
		"draft-show",
		"discard",
		"post",
		"profile",
		"edit-profile",
		"refresh-profile",
		"avatar /tmp/a.png",
		"whoami",
		"logout",
		"exit",
	)

	assert.Equal(t, []string{
		"login",
		"feed",
		"mine",
		"list",
		"list",
		"more",
		"search golang jobs",
		"category tech",
		"sort oldest",
		"filters",
		"like 3",
		"delete 4",
		"edit 5",
		"comment 3 nice post",
		"comments 3",
		"save-media 7",
		"draft",
		"draft-show",
		"discard",
		"post",
		"profile",
		"edit-profile",
		"refresh-profile",
		"avatar /tmp/a.png",
		"whoami",
		"logout",
	}, stub.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	stub := &stubExec{}
	out := runLines(t, stub, "frobnicate", "exit")

	joined := strings.Join(out, "")
	assert.Contains(t, joined, "Unknown command: frobnicate")
	assert.Empty(t, stub.calls)
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	out := strings.Join(runLines(t, &stubExec{loggedIn: false}, "help", "exit"), "")
	assert.Contains(t, out, helpLoggedOut)

	out = strings.Join(runLines(t, &stubExec{loggedIn: true}, "help", "exit"), "")
	assert.Contains(t, out, "feed")
	assert.Contains(t, out, "logout")
}

func TestREPL_EmptyLinesIgnored(t *testing.T) {
	stub := &stubExec{}
	runLines(t, stub, "", "   ", "login", "exit")
	assert.Equal(t, []string{"login"}, stub.calls)
}

func TestREPL_EOFExits(t *testing.T) {
	stub := &stubExec{}
	// no "exit": the scanner just runs dry
	runLines(t, stub, "login")
	assert.Equal(t, []string{"login"}, stub.calls)
}
