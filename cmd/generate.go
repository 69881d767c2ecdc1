package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/storycache/cache"
	"github.com/jonwraymond/storycache/story"
)

type generateOptions struct {
	params  story.Params
	offline bool
	repeat  int
	verbose bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a story segment and its choices through the cache",
		Long: `Generates the segment and choices for one story context and prints them.

With --repeat N the lookup is performed N times against the same cache, so
every pass after the first is served from memory.`,
		Example: `  storycache generate --user u1 --genre fantasy --tone dark --offline
  storycache generate --user u1 --setting "a drowned city" --repeat 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.params.UserID, "user", "", "User id the content is generated for (required)")
	f.StringVar(&opts.params.Genre, "genre", "", "Story genre")
	f.StringVar(&opts.params.Tone, "tone", "", "Story tone")
	f.StringVar(&opts.params.Character, "character", "", "Main character")
	f.StringVar(&opts.params.Setting, "setting", "", "Story setting")
	f.BoolVar(&opts.offline, "offline", false, "Use the deterministic offline generator")
	f.IntVar(&opts.repeat, "repeat", 1, "Number of lookups to perform")
	f.BoolVar(&opts.verbose, "verbose", false, "Write JSON logs to stderr")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	ctx := cmd.Context()

	cfg, err := root.load(ctx)
	if err != nil {
		return err
	}
	sc, err := story.ContextFromRequest(ctx, opts.params)
	if err != nil {
		return err
	}

	var logWriter io.Writer = io.Discard
	if opts.verbose {
		logWriter = os.Stderr
	}
	a, err := newApp(ctx, cfg, appOptions{offline: opts.offline, logWriter: logWriter})
	if err != nil {
		return err
	}
	defer func() { _ = a.shutdown(ctx) }()

	var (
		segment string
		choices []string
	)
	for range max(opts.repeat, 1) {
		if segment, err = a.service.Segment(ctx, sc); err != nil {
			return err
		}
		if choices, err = a.service.Choices(ctx, sc); err != nil {
			return err
		}
	}

	printStory(cmd.OutOrStdout(), a.backend, segment, choices, a.cache.Stats())
	return nil
}

var (
	headerColor  = lipgloss.Color("#F780FF")
	segmentColor = lipgloss.Color("#E9E9F4")
	choiceColor  = lipgloss.Color("#8BE9FD")
	mutedColor   = lipgloss.Color("#6272A4")
)

func printStory(w io.Writer, backend, segment string, choices []string, stats cache.Stats) {
	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true)

	segmentStyle := lipgloss.NewStyle().
		Foreground(segmentColor).
		Width(80)

	choiceStyle := lipgloss.NewStyle().
		Foreground(choiceColor)

	mutedStyle := lipgloss.NewStyle().
		Foreground(mutedColor).
		Italic(true)

	fmt.Fprintln(w, headerStyle.Render("Story:"))
	fmt.Fprintln(w, segmentStyle.Render(segment))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("Choices:"))
	for i, c := range choices {
		fmt.Fprintln(w, choiceStyle.Render(fmt.Sprintf("  %d. %s", i+1, c)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"backend %s · %s segments, %s choice lists cached · %s hits, %s misses",
		backend,
		humanize.Comma(int64(stats.Segments)),
		humanize.Comma(int64(stats.Choices)),
		humanize.Comma(int64(stats.Hits)),
		humanize.Comma(int64(stats.Misses)),
	)))
}
