package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/nanoid"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/security/jwt"
	"github.com/spf13/cobra"
)

// newTokenCommand signs an access token with the configured secret, for
// local development against an API whose identities are issued elsewhere.
func newTokenCommand(configPath *string) *cobra.Command {
	var (
		userID string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth == nil || cfg.Auth.JWT == nil || cfg.Auth.JWT.Secret == "" {
				return errors.New("auth.jwt.secret is not configured")
			}
			if expiry <= 0 {
				expiry = time.Duration(cfg.Auth.JWT.Expire) * time.Hour
			}

			tokens := jwt.NewTokenManager(cfg.Auth.JWT.Secret)
			token, err := tokens.GenerateAccessTokenWithExpiry(nanoid.Must(), userID, expiry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id carried by the token")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "token lifetime (defaults to auth.jwt.expire)")
	return cmd
}
