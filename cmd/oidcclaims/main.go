package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	oidc "github.com/goliatone/go-auth-oidc"
	"github.com/goliatone/go-auth-oidc/jwks"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type enrichOptions struct {
	token       string
	accountPath string
	configPath  string
	envPrefix   string
	jwksURL     string
	issuer      string
	audience    string
}

type cli struct {
	logger *glog.BaseLogger
}

var _ oidc.LoggerProvider = (*cli)(nil)

func newCLI() *cli {
	return &cli{logger: glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("oidcclaims"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)}
}

func (c *cli) GetLogger(name string) glog.Logger {
	return c.logger.GetLogger(name)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oidcclaims",
		Short:         "Inspect access tokens and preview principal enrichment",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newDecodeCmd(), newEnrichCmd())
	return root
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the claims of a compact JWT without verifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := oidc.NewJWTDecoder().Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), print.MaybePrettyJSON(claims))
			return nil
		},
	}
}

func newEnrichCmd() *cobra.Command {
	opts := &enrichOptions{}

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Build a principal from an account profile and an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.token, "token", "", "access token (defaults to $OIDC_ACCESS_TOKEN)")
	flags.StringVar(&opts.accountPath, "account", "", "YAML or JSON file with the account profile")
	flags.StringVar(&opts.configPath, "config", "", "YAML config with claim types")
	flags.StringVar(&opts.envPrefix, "env-prefix", "OIDC_", "environment prefix for claim type overrides")
	flags.StringVar(&opts.jwksURL, "jwks", "", "verify the token against this JWKS endpoint")
	flags.StringVar(&opts.issuer, "issuer", "", "expected issuer when --jwks is set")
	flags.StringVar(&opts.audience, "audience", "", "expected audience when --jwks is set")
	return cmd
}

func runEnrich(cmd *cobra.Command, opts *enrichOptions) error {
	ctx := cmd.Context()

	app := newCLI()

	cfg := oidc.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := oidc.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg = oidc.ConfigFromEnv(cfg, opts.envPrefix, ".env")

	account, err := loadAccount(opts.accountPath)
	if err != nil {
		return err
	}

	token := strings.TrimSpace(opts.token)
	if token == "" {
		token = strings.TrimSpace(os.Getenv("OIDC_ACCESS_TOKEN"))
	}

	factoryOpts := []oidc.Option{
		oidc.WithConfig(cfg),
		oidc.WithLoggerProvider(app),
	}

	if opts.jwksURL != "" {
		decoder, err := jwks.New(ctx, jwks.Config{
			URL:      opts.jwksURL,
			Issuer:   opts.issuer,
			Audience: opts.audience,
			Logger:   app.GetLogger("jwks"),
		})
		if err != nil {
			return err
		}
		defer decoder.Close()
		factoryOpts = append(factoryOpts, oidc.WithTokenDecoder(decoder))
	}

	factory, err := oidc.NewPrincipalFactory(
		oidc.StaticAccessTokenProvider{Token: oidc.AccessToken{Value: token}},
		factoryOpts...,
	)
	if err != nil {
		return err
	}

	principal, err := factory.CreateUser(ctx, account)
	if err != nil {
		return err
	}

	out := map[string]any{
		"authenticated": principal.IsAuthenticated(),
		"name":          principal.Name(),
		"roles":         principal.Identity().Roles(),
		"claims":        principal.Identity().Claims(),
	}
	fmt.Fprintln(cmd.OutOrStdout(), print.MaybePrettyJSON(out))
	return nil
}

func loadAccount(path string) (*oidc.Account, error) {
	if path == "" {
		return oidc.NewAccount(map[string]any{}), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	props := map[string]any{}
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid account profile")
	}
	return oidc.NewAccount(props), nil
}
