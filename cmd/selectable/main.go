package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pitabwire/util"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/pitabwire/selectable/catalog"
	"github.com/pitabwire/selectable/config"
	"github.com/pitabwire/selectable/localization"
)

const (
	minArgsCommand  = 2
	shutdownTimeout = 10 * time.Second
	readTimeout     = 5 * time.Second
)

func main() {
	if len(os.Args) < minArgsCommand {
		usage(os.Stderr)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch os.Args[1] {
	case "export":
		exitOnErr(cmdExport(ctx, os.Args[2:], os.Stdout))
	case "options":
		exitOnErr(cmdOptions(ctx, os.Args[2:], os.Stdout))
	case "check":
		exitOnErr(cmdCheck(ctx, os.Args[2:]))
	case "serve":
		exitOnErr(cmdServe(ctx, os.Args[2:]))
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		// #nosec G705 -- CLI output is not rendered in an HTML context.
		fmt.Fprintf(os.Stderr, "unknown command: %q\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "selectable <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export [--locale LOCALE] [--format yaml|toml|json]")
	fmt.Fprintln(w, "  options <enumeration> [--locale LOCALE]")
	fmt.Fprintln(w, "  check [--locale LOCALE]")
	fmt.Fprintln(w, "  serve")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Settings are read from the environment, see config.Configuration.")
}

// setup puts the configured logger and the configuration on ctx, then opens the catalog.
func setup(ctx context.Context) (context.Context, *catalog.Catalog, error) {
	cfg, err := config.FromEnv[config.Configuration]()
	if err != nil {
		return ctx, nil, err
	}

	opts := []util.Option{
		util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
		util.WithLogNoColor(!cfg.LoggingColored()),
		util.WithLogStackTrace(),
	}
	if level, levelErr := util.ParseLevel(cfg.LoggingLevel()); levelErr == nil {
		opts = append(opts, util.WithLogLevel(level))
	}
	ctx = util.ContextWithLogger(ctx, util.NewLogger(ctx, opts...))
	ctx = config.ToContext(ctx, &cfg)

	c, err := catalog.Open(ctx, &cfg)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, c, nil
}

func withLocale(ctx context.Context, locale string) context.Context {
	if locale == "" {
		return ctx
	}
	return localization.WithLocale(ctx, locale)
}

func cmdExport(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	locale := fs.String("locale", "", "locale to resolve names in, defaults to DEFAULT_LOCALE")
	format := fs.String("format", "yaml", "output format: yaml, toml or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	tree, err := c.Export(withLocale(ctx, *locale))
	if err != nil {
		return err
	}
	return encode(out, *format, tree)
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(out).Encode(v)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func cmdOptions(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("options", flag.ContinueOnError)
	locale := fs.String("locale", "", "locale to resolve names in, defaults to DEFAULT_LOCALE")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("enumeration is required, e.g. Product.product_type_cd")
	}

	ctx, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	opts, err := c.Options(withLocale(ctx, *locale), fs.Arg(0))
	if err != nil {
		return err
	}
	for _, o := range opts {
		_, _ = fmt.Fprintf(out, "%s\t%s\n", o.ID, o.Name)
	}
	return nil
}

func cmdCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	locale := fs.String("locale", "", "locale to read the enumerations in")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err = c.Check(withLocale(ctx, *locale)); err != nil {
		return err
	}
	util.Log(ctx).WithField("enumerations", len(c.Keys())).Info("all enumerations readable")
	return nil
}

func cmdServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, c, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	cfg := config.FromContext[*config.Configuration](ctx)
	srv := &http.Server{
		Addr:              cfg.HTTPPort(),
		Handler:           catalog.Handler(c),
		ReadHeaderTimeout: readTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		util.Log(ctx).WithField("addr", srv.Addr).Info("serving enumerations")
		if serveErr := srv.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func exitOnErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
