package cmd

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"rowbase/cli/internal/auth"
	"rowbase/cli/internal/httperrors"
	"rowbase/cli/internal/logging"
	"rowbase/cli/pkg/rowbase"

	"github.com/pterm/pterm"
)

// startInlineSpinner starts a simple inline spinner animation on a single
// line. It displays rotating frames followed by the provided text, updating
// the same line in the terminal. The returned function stops the spinner and
// clears the line.
func startInlineSpinner(w io.Writer, text string, interval time.Duration) func() {
	frames := []string{"|", "/", "-", "\\"}
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

// presentServiceError prints a user-facing message for a failed service call
// and returns the error for the command runner to propagate.
func presentServiceError(err error, context string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, auth.ErrNotLoggedIn) {
		pterm.Println("🔒 You're not logged in yet!")
		pterm.Println("   Run 'rowbase login' to get started.")
		return err
	}
	if rowbase.IsAuthError(err) {
		pterm.Println("❌ Authentication failed")
		pterm.Println(logging.PresentError(context, err))
		pterm.Println("   Your token may have expired. Run 'rowbase login' again.")
		return err
	}
	if rowbase.IsClientError(err) {
		pterm.Println(logging.PresentError("❌ "+context, err))
		return err
	}
	return httperrors.FormatNetworkError(err, context)
}
