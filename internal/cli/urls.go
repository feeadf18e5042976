package cli

import (
	"context"

	"github.com/me/minify/internal/nav"
	"github.com/spf13/cobra"
)

// displayError is a message shown to the user as is, the way a page
// shows it. Its text is a sentence, not a Go error string.
type displayError string

func (e displayError) Error() string { return string(e) }

const errNotLoggedIn displayError = "Please log in to view your URLs"

func newURLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "urls",
		Aliases: []string{"dashboard"},
		Short:   "List your shortened URLs",
		Args:    cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			user := a.auth.User()
			if user == nil {
				a.nav.Navigate(nav.Home)
				return errNotLoggedIn
			}

			urls, err := a.client.URLs.ListByUser(ctx, user.ID)
			if err != nil {
				return err
			}
			renderURLs(cmd.OutOrStdout(), a.client.BaseURL(), user, urls)
			return nil
		}),
	}
}
