package cli

import (
	"context"
	"os"
	"strings"

	"github.com/dpetrovs/proconnect/internal/client/models"
	"github.com/dpetrovs/proconnect/internal/client/session"
)

// ShowProfile prints the cached profile snapshot, flagging it when it is
// being served stale because the server is unreachable.
func (a *App) ShowProfile(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	p := a.store.Profile()
	if p == nil {
		printlnFn("No profile loaded. Try 'refresh-profile'.")
		return nil
	}
	if a.store.ProfileState() == session.ProfileStale {
		printlnFn("(cached copy; server unreachable)")
	}

	printlnFn("Username:  " + p.Username)
	printlnFn("Email:     " + p.Email)
	if p.Title != "" {
		printlnFn("Title:     " + p.Title)
	}
	if p.Location != "" {
		printlnFn("Location:  " + p.Location)
	}
	if p.Bio != "" {
		printlnFn("Bio:       " + p.Bio)
	}
	if len(p.Skills) > 0 {
		printlnFn("Skills:    " + strings.Join(p.Skills, ", "))
	}
	if p.Experience != "" {
		printlnFn("Experience: " + p.Experience)
	}
	if p.Education != "" {
		printlnFn("Education: " + p.Education)
	}
	if p.Phone != "" {
		printlnFn("Phone:     " + p.Phone)
	}
	if p.LinkedIn != "" {
		printlnFn("LinkedIn:  " + p.LinkedIn)
	}
	if p.GitHub != "" {
		printlnFn("GitHub:    " + p.GitHub)
	}
	if p.Twitter != "" {
		printlnFn("Twitter:   " + p.Twitter)
	}
	if p.AvatarURL != "" {
		printlnFn("Avatar:    " + p.AvatarURL)
	}
	return nil
}

// EditProfile walks through the editable fields. Empty input keeps the
// current value; a single "-" clears it.
func (a *App) EditProfile(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	current := models.Profile{}
	if p := a.store.Profile(); p != nil {
		current = *p
	}

	fields := []struct {
		label string
		value *string
	}{
		{"Title", &current.Title},
		{"Location", &current.Location},
		{"Bio", &current.Bio},
		{"Experience", &current.Experience},
		{"Education", &current.Education},
		{"Phone", &current.Phone},
		{"LinkedIn", &current.LinkedIn},
		{"GitHub", &current.GitHub},
		{"Twitter", &current.Twitter},
	}

	for _, f := range fields {
		input, err := getSimpleText(a.reader, promptWithDefault(f.label, *f.value), os.Stdout)
		if err != nil {
			return err
		}
		switch input {
		case "":
		case "-":
			*f.value = ""
		default:
			*f.value = input
		}
	}

	skills, err := getSimpleText(a.reader, promptWithDefault("Skills (comma-separated)", strings.Join(current.Skills, ", ")), os.Stdout)
	if err != nil {
		return err
	}
	switch skills {
	case "":
	case "-":
		current.Skills = nil
	default:
		parts := strings.Split(skills, ",")
		current.Skills = current.Skills[:0]
		for _, s := range parts {
			if s = strings.TrimSpace(s); s != "" {
				current.Skills = append(current.Skills, s)
			}
		}
	}

	res := a.store.UpdateProfile(ctx, current)
	if res.Message != "" {
		printlnFn(res.Message)
	}
	return nil
}

// RefreshProfile forces a re-fetch of the canonical profile.
func (a *App) RefreshProfile(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	a.store.RefreshProfile(ctx)
	switch a.store.ProfileState() {
	case session.ProfileReady:
		printlnFn("Profile refreshed")
	case session.ProfileStale:
		printlnFn("Server unreachable; showing cached profile.")
	default:
		printlnFn("Profile unavailable.")
	}
	return nil
}

// UploadAvatar sends a local image file as the new profile picture.
func (a *App) UploadAvatar(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: avatar <path-to-image>")
		return nil
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		printlnFn("Cannot read file:", path)
		return nil
	}

	res := a.store.UploadAvatar(ctx, path)
	if res.Message != "" {
		printlnFn(res.Message)
	}
	return nil
}
