package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"convcompare/internal/mockserver"
)

// startMock runs the mock server until it stops; tests replace it.
var startMock = func(srv *mockserver.Server, addr string) error {
	return srv.Start(addr)
}

func newServeCommand(global *globalOptions) *cobra.Command {
	var addr, replyField string
	var requireLogin, unhealthy bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory chat server that speaks the target contract",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), global)
			if err != nil {
				return err
			}
			switch replyField {
			case mockserver.ReplyFieldAIResponse, mockserver.ReplyFieldAIMessage:
			default:
				return usageErrorf("invalid --reply-field %q (expected %s|%s)", replyField, mockserver.ReplyFieldAIResponse, mockserver.ReplyFieldAIMessage)
			}
			if addr == "" {
				return usageErrorf("missing --addr")
			}

			srv := mockserver.New(mockserver.Options{
				ReplyField:   replyField,
				RequireLogin: requireLogin,
				Unhealthy:    unhealthy,
				Logger:       logger.With().Str("component", "mockserver").Logger(),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Mock chat server listening on http://%s\n", addr)
			logger.Info().Str("addr", addr).Str("reply_field", replyField).Bool("require_login", requireLogin).Msg("mock server starting")
			if err := startMock(srv, addr); err != nil {
				return failf("Server error: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	cmd.Flags().StringVar(&replyField, "reply-field", mockserver.ReplyFieldAIResponse, "Key of the AI message object in replies")
	cmd.Flags().BoolVar(&requireLogin, "require-login", false, "Omit tokens from signup replies")
	cmd.Flags().BoolVar(&unhealthy, "unhealthy", false, "Answer the health check with 503")
	return cmd
}
