package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/me/minify/internal/validate"
	"github.com/me/minify/pkg/model"
	"github.com/spf13/cobra"
)

func newShortenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "shorten <url>",
		Aliases: []string{"minify"},
		Short:   "Shorten a URL",
		Long:    "Shorten a URL. When logged in, the link is saved to your account.",
		Args:    cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if err := validate.URL(args[0]); err != nil {
				return err
			}

			req := model.MinifyRequest{URL: strings.TrimSpace(args[0])}
			user := a.auth.User()
			if user != nil {
				req.UserID = &user.ID
			}

			resp, err := a.client.URLs.Minify(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Short URL:    %s\n", resp.ShortURL)
			fmt.Fprintf(out, "Original URL: %s\n", resp.OriginalURL)
			if user == nil {
				fmt.Fprintln(out)
				fmt.Fprintln(out, mutedStyle.Render(`Tip: Create an account to save and manage your Minified URLs! Run "minify register".`))
			}
			return nil
		}),
	}
}
