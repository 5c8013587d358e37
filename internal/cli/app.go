// Package cli is the terminal front-end: one page per process, the session
// kept in a local file.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/output"
	"github.com/set-night/codegen/internal/page"
	"github.com/set-night/codegen/internal/session"
)

const usage = `Использование: codegen <команда> [аргументы]

Команды:
  generate [-o dir] [-preview] <задача...>  Сгенерировать код
  signin <имя> <email>                     Войти по email
  profile                                  Профиль и остаток запросов
  upgrade                                  Перейти на Pro
  pro                                      Возможности Pro
  signout                                  Выйти
`

// Deps are the collaborators of an App.
type Deps struct {
	Config     *config.CLIConfig
	Store      session.Store
	Accounts   page.AccountClient
	Payments   page.PaymentClient
	Generation page.GenerationClient
	Opener     page.Opener
	Stdout     io.Writer
	Stderr     io.Writer
}

type App struct {
	cfg        *config.CLIConfig
	out, err   io.Writer
	session    *session.Context
	profile    *page.Profile
	controller *page.Controller
}

func New(deps Deps) *App {
	notifier := NewNotifier(deps.Stdout, deps.Stderr)
	s := session.New(deps.Store, config.SessionKeyCLI)

	return &App{
		cfg:     deps.Config,
		out:     deps.Stdout,
		err:     deps.Stderr,
		session: s,
		profile: page.NewProfile(page.ProfileDeps{
			Session:  s,
			Accounts: deps.Accounts,
			Payments: deps.Payments,
			Opener:   deps.Opener,
			Notifier: notifier,
		}),
		controller: page.NewController(
			page.NewGenerator(s, deps.Generation),
			notifier,
			NewView(deps.Stdout),
		),
	}
}

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	defer a.profile.Close()

	if len(args) == 0 {
		fmt.Fprint(a.err, usage)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "generate", "gen":
		err = a.generate(ctx, rest)
	case "signin":
		err = a.signIn(ctx, rest)
	case "profile":
		a.profile.Load(ctx)
		a.printProfile()
	case "upgrade":
		_, err = a.profile.Upgrade(ctx)
	case "pro":
		a.printPro()
	case "signout":
		err = a.profile.SignOut(ctx)
		if err == nil {
			fmt.Fprintln(a.out, "Вы вышли из аккаунта")
		}
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
	default:
		fmt.Fprintf(a.err, "неизвестная команда %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return 2
		}
		return 1
	}
	return 0
}

func (a *App) generate(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("generate", flag.ContinueOnError)
	fset.SetOutput(a.err)
	dir := fset.String("o", "", "save the result to `dir`/"+output.DefaultFilename)
	preview := fset.Bool("preview", false, "summarise HTML output")
	if err := fset.Parse(args); err != nil {
		return &domain.ValidationError{Field: "flags"}
	}

	if err := a.controller.SubmitPrompt(ctx, strings.Join(fset.Args(), " ")); err != nil {
		return err
	}
	code := a.controller.Result()

	if *dir != "" {
		path, err := output.Download(*dir, code)
		if err != nil {
			fmt.Fprintf(a.err, "✗ %s\n", err)
			return err
		}
		fmt.Fprintf(a.out, "✓ %s: %s (%s)\n", output.TitleDownloaded, output.TextDownloaded, path)
	}

	if *preview {
		if p, ok := output.NewPreview(code); ok {
			fmt.Fprintln(a.out, p.String())
		} else {
			fmt.Fprintln(a.out, output.TextNoPreview)
		}
	}

	if line, ok := quotaLine(a.profile.View()); ok {
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// signIn takes "<name...> <email>".
func (a *App) signIn(ctx context.Context, args []string) error {
	var username, email string
	switch {
	case len(args) >= 2:
		username = strings.Join(args[:len(args)-1], " ")
		email = args[len(args)-1]
	case len(args) == 1:
		username = args[0]
	}

	if _, err := a.profile.SignIn(ctx, username, email); err != nil {
		return err
	}
	a.printProfile()
	return nil
}

func (a *App) printProfile() {
	v := a.profile.View()
	fmt.Fprintf(a.out, "%s (%s)\n", v.Name, v.Plan)

	switch {
	case !v.SignedIn:
		fmt.Fprintln(a.out, "Войдите: codegen signin <имя> <email>")
	case v.IsPremium:
		fmt.Fprintln(a.out, "Безлимитные генерации")
	default:
		fmt.Fprintf(a.out, "Использовано %d из %d (%.0f%%), осталось %d\n", v.Used, v.Limit, v.Progress, v.Remaining)
	}
}

func (a *App) printPro() {
	fmt.Fprintf(a.out, "Pro Plan: %s/мес\n", a.cfg.PremiumPriceString())
	for _, f := range config.ProFeatures {
		fmt.Fprintf(a.out, "  • %s\n", f)
	}
	fmt.Fprintln(a.out, "codegen upgrade — перейти на Pro")
}

func quotaLine(v page.ProfileView) (string, bool) {
	if !v.SignedIn || v.IsPremium {
		return "", false
	}
	return fmt.Sprintf("Осталось бесплатных запросов: %d из %d", v.Remaining, v.Limit), true
}
