package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cast"

	"mj-blocks/internal/config"
	"mj-blocks/internal/container"
	"mj-blocks/internal/copytext"
	"mj-blocks/internal/generator"
	"mj-blocks/internal/model"
)

// errUsage marks a command line the user has to fix; usage was already printed.
var errUsage = errors.New("usage error")

// cli runs one command against a wired container.
type cli struct {
	c      *container.Container
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("block-cli", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "Path to a config file (default: ./mjblocks.yaml if present)")
	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	c, err := container.New(cfg, cfg.NewLogger(stderr))
	if err != nil {
		fmt.Fprintf(stderr, "Error initializing: %v\n", err)
		return 1
	}

	app := &cli{c: c, stdin: bufio.NewReader(stdin), stdout: stdout, stderr: stderr}
	if err := app.dispatch(rest[0], rest[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (app *cli) dispatch(command string, args []string) error {
	switch command {
	case "list":
		return app.handleList(args)
	case "create":
		return app.handleCreate(args)
	case "configure":
		return app.handleConfigure(args)
	case "render":
		return app.handleRender(args)
	case "delete":
		return app.handleDelete(args)
	case "media-add":
		return app.handleMediaAdd(args)
	case "media-list":
		return app.handleMediaList(args)
	case "scaffold-theme":
		return app.handleScaffoldTheme(args)
	default:
		fmt.Fprintf(app.stderr, "Unknown command: %s\n", command)
		printUsage(app.stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: block-cli [-config file] <command> [options]")
	fmt.Fprintln(w, "Available commands:")
	fmt.Fprintln(w, "  list                          List all placed blocks")
	fmt.Fprintln(w, "  create -label <label> [-region <region>]")
	fmt.Fprintln(w, "                                Place a new copy text block")
	fmt.Fprintln(w, "  configure -id <block-id> [settings and placement flags]")
	fmt.Fprintln(w, "                                Change a block's settings, label, region or weight")
	fmt.Fprintln(w, "  render -id <block-id> | -region <region>")
	fmt.Fprintln(w, "                                Print the rendered HTML")
	fmt.Fprintln(w, "  delete -id <block-id> [-yes]  Delete a block")
	fmt.Fprintln(w, "  media-add -file <path>        Import an image into the media library")
	fmt.Fprintln(w, "  media-list                    List media library images")
	fmt.Fprintln(w, "  scaffold-theme [-dir <dir>] [-force] [-hook <name>]")
	fmt.Fprintln(w, "                                Copy the default templates into a theme directory")
}

func (app *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.stderr)
	return fs
}

func (app *cli) requireFlag(fs *flag.FlagSet, name, value string) error {
	if value == "" {
		fmt.Fprintf(app.stderr, "Error: -%s flag is required for %s command\n", name, fs.Name())
		fs.Usage()
		return errUsage
	}
	return nil
}

func (app *cli) handleList(args []string) error {
	fs := app.flagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	blocks, err := app.c.Manager.List()
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		fmt.Fprintln(app.stdout, "No blocks found.")
		return nil
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tREGION\tWEIGHT\tSTATE")
	for _, b := range blocks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", b.ID, b.Label, b.Region, b.Weight, b.State)
	}
	return tw.Flush()
}

func (app *cli) handleCreate(args []string) error {
	fs := app.flagSet("create")
	label := fs.String("label", "", "Admin label of the block (required)")
	region := fs.String("region", "", "Region to place the block in (default \"content\")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := app.requireFlag(fs, "label", *label); err != nil {
		return err
	}

	block, err := app.c.Manager.Create(*label, *region)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Created block '%s' with ID '%s' in region '%s'\n", block.Label, block.ID, block.Region)
	return nil
}

func (app *cli) handleConfigure(args []string) error {
	fs := app.flagSet("configure")
	id := fs.String("id", "", "ID of the block to configure (required)")
	label := fs.String("label", "", "New admin label")
	region := fs.String("region", "", "New region")
	weight := fs.Int("weight", 0, "New weight; lower renders first")
	color := fs.String("color", "", "Text color: black, white, red or yellow")
	width := fs.String("width", "", "Text width: full or contained")
	text := fs.String("text", "", "Copy text markup")
	format := fs.String("format", "", "Text format of -text (default mj_tf_standard)")
	background := fs.String("background", "", "Use a background image: true or false")
	image := fs.String("image", "", "Media asset ID of the background image")
	opacity := fs.String("opacity", "", "Background image opacity, between 0 and 1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := app.requireFlag(fs, "id", *id); err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["label"] || set["region"] || set["weight"] {
		var w *int
		if set["weight"] {
			w = weight
		}
		if _, err := app.c.Manager.Place(*id, *label, *region, w); err != nil {
			return err
		}
	}

	settingFlags := []string{"color", "width", "text", "format", "background", "image", "opacity"}
	touched := false
	for _, name := range settingFlags {
		touched = touched || set[name]
	}
	if !touched {
		fmt.Fprintf(app.stdout, "Updated block '%s'\n", *id)
		return nil
	}

	block, err := app.c.Manager.Get(*id)
	if err != nil {
		return err
	}
	v := copytext.ValuesFrom(block.Settings)
	if set["color"] {
		v.TextColor = model.TextColor(*color)
	}
	if set["width"] {
		v.TextWidth = model.TextWidth(*width)
	}
	if set["text"] {
		v.CopyText.Value = *text
	}
	if set["format"] {
		v.CopyText.Format = *format
	}
	if v.CopyText.Format == "" {
		v.CopyText.Format = copytext.DefaultFormat
	}
	if v.TextColor == "" {
		v.TextColor = copytext.DefaultTextColor
	}
	if set["background"] {
		b, err := cast.ToBoolE(*background)
		if err != nil {
			return fmt.Errorf("invalid -background value %q: %w", *background, err)
		}
		v.UseBackground = b
	}
	if set["image"] {
		v.Image = *image
	}
	if set["opacity"] {
		v.ImageOpacity = *opacity
	}

	if _, err := app.c.Manager.Submit(*id, v); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Configured block '%s'\n", *id)
	return nil
}

func (app *cli) handleRender(args []string) error {
	fs := app.flagSet("render")
	id := fs.String("id", "", "ID of the block to render")
	region := fs.String("region", "", "Region to render")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*id == "") == (*region == "") {
		fmt.Fprintln(app.stderr, "Error: exactly one of -id or -region is required for render command")
		fs.Usage()
		return errUsage
	}

	if *id != "" {
		html, err := app.c.Manager.Render(*id, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.stdout, html)
		return nil
	}

	blocks, err := app.c.Manager.RenderRegion(*region)
	if err != nil {
		return err
	}
	for _, html := range blocks {
		fmt.Fprintln(app.stdout, html)
	}
	return nil
}

// askForConfirmation reads a yes/no answer; anything but yes declines.
func (app *cli) askForConfirmation(prompt string) bool {
	fmt.Fprintf(app.stdout, "%s [y/N]: ", prompt)
	response, err := app.stdin.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func (app *cli) handleDelete(args []string) error {
	fs := app.flagSet("delete")
	id := fs.String("id", "", "ID of the block to delete (required)")
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := app.requireFlag(fs, "id", *id); err != nil {
		return err
	}

	block, err := app.c.Manager.Get(*id)
	if err != nil {
		return err
	}
	if !*yes && !app.askForConfirmation(fmt.Sprintf("Delete block '%s' (%s)?", block.Label, block.ID)) {
		fmt.Fprintln(app.stdout, "Operation cancelled.")
		return nil
	}
	if err := app.c.Manager.Delete(*id); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Deleted block '%s'\n", block.Label)
	return nil
}

func (app *cli) handleMediaAdd(args []string) error {
	fs := app.flagSet("media-add")
	file := fs.String("file", "", "Path of the image to import (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := app.requireFlag(fs, "file", *file); err != nil {
		return err
	}

	asset, err := app.c.Media.Import(*file, model.ImageBundle)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Imported '%s' as asset '%s' (%s)\n", asset.Filename, asset.ID, asset.URI)
	return nil
}

func (app *cli) handleMediaList(args []string) error {
	fs := app.flagSet("media-list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	assets, err := app.c.Media.List(model.ImageBundle)
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		fmt.Fprintln(app.stdout, "No media found.")
		return nil
	}

	tw := tabwriter.NewWriter(app.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILENAME\tTYPE\tURL")
	for _, a := range assets {
		url, err := app.c.URLs.PublicURL(a.URI)
		if err != nil {
			url = a.URI
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Filename, a.MimeType, url)
	}
	return tw.Flush()
}

func (app *cli) handleScaffoldTheme(args []string) error {
	fs := app.flagSet("scaffold-theme")
	dir := fs.String("dir", "", "Theme directory (default: theme.dir from config, else \"theme\")")
	force := fs.Bool("force", false, "Overwrite existing files")
	hook := fs.String("hook", "", "Only add a stub template for a new theme hook")
	if err := fs.Parse(args); err != nil {
		return err
	}

	themeDir := *dir
	if themeDir == "" {
		themeDir = app.c.Config.Theme.Dir
	}
	if themeDir == "" {
		themeDir = "theme"
	}

	if *hook != "" {
		name, err := generator.AddTemplate(themeDir, *hook, *force)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.stdout, "Created template for hook '%s' in %s\n", name, themeDir)
		return nil
	}

	genCfg, err := generator.DefaultThemeConfig(themeDir)
	if err != nil {
		return err
	}
	genCfg.Force = *force
	genCfg.Logger = app.c.Logger

	written, err := generator.ScaffoldTheme(genCfg)
	for _, path := range written {
		fmt.Fprintf(app.stdout, "Created file: %s\n", path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Theme scaffolded in %s. Set theme.dir to use it.\n", themeDir)
	return nil
}
