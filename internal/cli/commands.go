package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/tweetfeed/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login NAME",
		Short: "Set the display name used for posting and liking",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sess.Login(strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", a.sess.Username)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sess.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Set the color theme, or toggle it when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := a.sess.Theme.Toggled()
			if len(args) == 1 {
				t, err := session.ParseTheme(args[0])
				if err != nil {
					return err
				}
				next = t
			}
			if err := a.sess.SetTheme(next); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Theme: %s\n", next)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all tweets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			return a.refresh(cmd.Context())
		},
	}
}

func newPostCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "post TEXT...",
		Short: "Post a tweet and reprint the feed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			content := strings.TrimSpace(strings.Join(args, " "))
			if content == "" {
				return fmt.Errorf("tweet text must not be empty")
			}
			if _, err := a.client.Create(cmd.Context(), a.sess.Username, content); err != nil {
				return err
			}
			return a.refresh(cmd.Context())
		},
	}
}

func newLikeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like ID",
		Short: "Like a tweet, or unlike it if already liked, and reprint the feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			id, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid tweet id %q", args[0])
			}
			if _, err := a.client.ToggleLike(cmd.Context(), uint(id), a.sess.Username); err != nil {
				return err
			}
			return a.refresh(cmd.Context())
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration
	var count int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the feed and reprint it on every tick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive")
			}
			return a.watch(cmd.Context(), interval, count)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "poll interval")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many refreshes (0 = until interrupted)")
	return cmd
}

// watch 按间隔轮询；单次失败只打印错误，不退出
func (a *app) watch(ctx context.Context, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		fmt.Fprintf(a.out, "── %s ──\n", time.Now().Format("15:04:05"))
		if err := a.refresh(ctx); err != nil {
			fmt.Fprintf(a.out, "refresh failed: %v\n", err)
		}
		if count > 0 && n >= count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
