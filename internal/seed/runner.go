package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/classpulse/seeder/internal/classpulse"
)

// Options holds one run's worth of resolved configuration.
type Options struct {
	FrontendURL string
	SessionID   string
	Question    string
	Count       int
	Delay       time.Duration
	NoDelay     bool
}

// Summary reports the outcome of one seeding run.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	AdminLink string
}

// Runner drives a single sequential seeding run: resolve the session once,
// then submit Count generated responses with the configured pacing.
type Runner struct {
	Client  *classpulse.Client
	Names   *NameDeck
	Answers *Synthesizer
	Out     io.Writer
}

// Run executes the seeding loop. Session-resolution failures and name-pool
// capacity errors abort before any submission; individual submit failures are
// reported inline and never stop the loop.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Count > r.Names.Remaining() {
		return Summary{}, fmt.Errorf("count %d exceeds remaining name capacity %d: %w",
			opts.Count, r.Names.Remaining(), ErrNamesExhausted)
	}

	sessionID, question, link, err := r.resolveSession(ctx, opts)
	if err != nil {
		return Summary{}, err
	}

	delay := opts.Delay
	if opts.NoDelay {
		delay = 0
	}

	fmt.Fprintf(r.Out, "\nSubmitting %d fake student responses...\n", opts.Count)

	summary := Summary{AdminLink: link}
	for i := 0; i < opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		name, err := r.Names.Next()
		if err != nil {
			return summary, err
		}
		answer := r.Answers.Synthesize(question)

		summary.Attempted++
		_, err = r.Client.SubmitResponse(ctx, sessionID, name, answer)

		var apiErr *classpulse.APIError
		switch {
		case err == nil:
			summary.Succeeded++
			fmt.Fprintf(r.Out, "  [%d/%d] %s: %s...\n", i+1, opts.Count, name, truncate(answer, 50))
		case errors.As(err, &apiErr):
			summary.Failed++
			fmt.Fprintf(r.Out, "  [%d/%d] FAILED: %d - %s\n", i+1, opts.Count, apiErr.StatusCode, apiErr.Body)
		default:
			summary.Failed++
			fmt.Fprintf(r.Out, "  [%d/%d] ERROR: %v\n", i+1, opts.Count, err)
		}

		if delay > 0 && i < opts.Count-1 {
			if err := pause(ctx, delay); err != nil {
				return summary, err
			}
		}
	}

	fmt.Fprintf(r.Out, "\nDone! Open the admin dashboard to see the collected responses.\n")
	fmt.Fprintf(r.Out, "  %s\n", link)
	return summary, nil
}

// resolveSession obtains the working session: by identifier when one was
// supplied, otherwise by creating a fresh one. The returned question feeds
// answer synthesis and the link points at the admin dashboard.
func (r *Runner) resolveSession(ctx context.Context, opts Options) (sessionID, question, link string, err error) {
	if opts.SessionID != "" {
		session, err := r.Client.GetSession(ctx, opts.SessionID)
		if err != nil {
			return "", "", "", err
		}
		fmt.Fprintf(r.Out, "Using existing session: %s\n", session.ID)
		fmt.Fprintf(r.Out, "  Question: %s\n", preview(session.Question, 60))
		link := adminLink(opts.FrontendURL, session.ID, "<your-admin-token>")
		return session.ID, session.Question, link, nil
	}

	created, err := r.Client.CreateSession(ctx, opts.Question)
	if err != nil {
		return "", "", "", err
	}

	link = adminLink(opts.FrontendURL, created.SessionID, "<your-admin-token>")
	if created.HasAdminToken() {
		link = adminLink(opts.FrontendURL, created.SessionID, created.AdminToken)
	}

	fmt.Fprintf(r.Out, "Created session: %s\n", created.SessionID)
	fmt.Fprintf(r.Out, "  Student URL: %s\n", created.StudentURL)
	fmt.Fprintf(r.Out, "  Admin URL:   %s\n", link)
	return created.SessionID, opts.Question, link, nil
}

func adminLink(frontendURL, sessionID, token string) string {
	return fmt.Sprintf("%s/session/%s/admin?token=%s", frontendURL, sessionID, token)
}

// pause sleeps cooperatively, waking early on cancellation.
func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
