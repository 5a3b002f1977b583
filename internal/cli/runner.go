package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/idilsaglam/recipes/internal/form"
	"github.com/idilsaglam/recipes/internal/model"
	"github.com/idilsaglam/recipes/internal/schema"
	"github.com/idilsaglam/recipes/internal/submit"
	"github.com/idilsaglam/recipes/internal/tui"
	"github.com/idilsaglam/recipes/internal/ui"
)

// flushTimeout bounds how long shutdown waits for in-flight submissions.
var flushTimeout = 10 * time.Second

// Options carry the parsed root flags.
type Options struct {
	ConfigPath string
	Flags      *pflag.FlagSet // root flag set, bound into the config
	Version    string
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	cmd := "new"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "schema":
		fmt.Fprint(ui.Stdout, string(schema.Document()))
		return 0
	case "new", "submit", "categories":
	default:
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(ui.Stderr)
		PrintHelp()
		return 2
	}

	a, err := setup(ctx, opt)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer a.close()

	switch cmd {
	case "categories":
		return doCategories()
	case "submit":
		return doSubmit(ctx, a, args)
	}
	if len(args) > 0 {
		ui.Fail("usage: recipes new")
		return 2
	}
	return doNew(ctx, a)
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout, `recipes - add your favorite recipe

Usage:
  recipes [root flags] <subcommand> [args]

Subcommands:
  new                Open the recipe form (default)
  submit [flags]     Validate and submit a recipe without the form
                       --name --source --category --ingredients --instructions
  categories         List recipe categories
  schema             Print the recipe schema (OpenAPI)

Root flags:
  --config <path>    Config file (default: $XDG_CONFIG_HOME/recipes/config.yaml)
  --theme <name>     classic | neon | mono
  --endpoint <url>   Where recipes are posted

Examples:
  recipes
  recipes submit --name Pancakes --source Grandma --category breakfast \
    --ingredients "flour, eggs, milk" --instructions "Mix. Fry."
`)
}

// -------------- subcommand impls ----------------

func doNew(ctx context.Context, a *app) int {
	d := submit.NewDispatcher(a.client, submit.WithDispatchLogger(a.log))
	n, err := tui.Run(ctx, tui.Options{
		Form:     a.newForm(),
		Schema:   a.schema,
		Dispatch: d.Dispatch,
		Logger:   a.log,
	})
	flush(ctx, a, d)
	if err != nil {
		ui.Fail("form: " + err.Error())
		return 1
	}
	if n > 0 {
		ui.OK(fmt.Sprintf("%d recipe(s) sent to %s", n, a.cfg.Endpoint))
	}
	return 0
}

func doSubmit(ctx context.Context, a *app, args []string) int {
	fs := pflag.NewFlagSet("submit", pflag.ContinueOnError)
	fs.SetOutput(ui.Stderr)
	values := map[model.Field]*string{}
	for _, f := range model.Fields() {
		values[f] = fs.String(string(f), "", a.schema.Title(f))
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		ui.Fail("submit: unexpected arguments; use --name, --source, ...")
		return 2
	}

	f := a.newForm()
	for _, field := range model.Fields() {
		fc, ec, err := f.Change(field, *values[field])
		if err != nil {
			ui.Fail("submit: " + err.Error())
			return 1
		}
		f.ApplyField(fc.Run())
		f.ApplyEligibility(ec.Run())
	}
	if f.Disabled() {
		ui.Panel(errorLines(a.schema, f))
		return 2
	}

	payload, _ := f.Submit()
	var (
		status int
		result error
	)
	d := submit.NewDispatcher(a.client,
		submit.WithDispatchLogger(a.log),
		submit.WithOutcome(func(_ model.Recipe, resp *submit.Response, err error) {
			if resp != nil {
				status = resp.Status
			}
			result = err
		}),
	)
	d.Dispatch(payload)
	if err := flush(ctx, a, d); err != nil {
		ui.Fail("submit: " + err.Error())
		return 1
	}
	if result != nil {
		ui.Fail("submit: " + result.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("submitted %q (%d)", payload.Name, status))
	return 0
}

func doCategories() int {
	t := ui.Current()
	lines := []string{t.Title.Render("Categories"), ""}
	for _, c := range model.Categories() {
		lines = append(lines, fmt.Sprintf("%-14s %s", c, t.Muted.Render(c.Label())))
	}
	ui.Panel(lines)
	return 0
}

// flush waits for submissions still in flight.
func flush(ctx context.Context, a *app, d *submit.Dispatcher) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
	defer cancel()
	err := d.Wait(ctx)
	if err != nil {
		a.log.Warn("submissions still in flight at exit", "err", err)
	}
	return err
}

// -------------- rendering helpers --------------

func errorLines(s *schema.Schema, f *form.Form) []string {
	t := ui.Current()
	lines := []string{t.Title.Render("Recipe not submitted"), ""}
	for _, field := range model.Fields() {
		if msg := f.Error(field); msg != "" {
			lines = append(lines, fmt.Sprintf("%s %s: %s", t.SymFail, s.Title(field), t.Error.Render(msg)))
		}
	}
	return lines
}
