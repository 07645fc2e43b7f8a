package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jannev/chipfx/audio"
	"github.com/jannev/chipfx/common"
	"github.com/jannev/chipfx/playback"
	"github.com/jannev/chipfx/server"
	"github.com/jannev/chipfx/store"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chipfx",
	Short: "Procedural sound-effect synthesizer",
	Long: `chipfx renders compact 24-parameter settings vectors into playable
WAV audio, in the tradition of the sfxr family of tools.

Pipeline: settings vector -> sample synthesis -> WAV -> data URI`,
	Version: version,
}

var (
	flagSettings string
	flagPreset   string
	flagDesign   string
	flagSeed     uint32
	flagOut      string
	flagURI      bool

	flagPort     int
	flagCacheDir string
	flagNoCache  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a sound effect to a WAV file or data URI",
	Long: `Render a sound effect from an explicit settings string, a library
preset, or a random designer family.

Examples:
  chipfx render --preset Laser -o laser.wav
  chipfx render --settings "0,,.18,.12,.21,.69,,-.32,,,,,,,,,,,1,,,,,.5" --uri
  chipfx render --design explosion --seed 1234 -o boom.wav`,
	RunE: runRender,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Render a sound effect and play it",
	RunE:  runPlay,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in effects and designer families",
	RunE:  runPresets,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP render service",
	Long: `Start the render service with its built-in control panel.

Example:
  chipfx serve --port 8080`,
	RunE: runServe,
}

func init() {
	for _, cmd := range []*cobra.Command{renderCmd, playCmd} {
		cmd.Flags().StringVarP(&flagSettings, "settings", "s", "", "comma-separated settings string")
		cmd.Flags().StringVarP(&flagPreset, "preset", "p", "", "library preset name or id")
		cmd.Flags().StringVarP(&flagDesign, "design", "d", "", "designer family (laser, explosion, pickup, ...)")
		cmd.Flags().Uint32Var(&flagSeed, "seed", 0, "designer seed (0 = unseeded)")
	}
	renderCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output WAV file")
	renderCmd.Flags().BoolVar(&flagURI, "uri", false, "print the data URI to stdout")

	serveCmd.Flags().IntVar(&flagPort, "port", 8080, "listen port")
	serveCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "render cache directory (default: platform cache dir)")
	serveCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the render cache")

	rootCmd.AddCommand(renderCmd, playCmd, presetsCmd, serveCmd)
}

// resolveParams picks the parameter source: explicit settings win over a
// library preset, which wins over a designer family.
func resolveParams() (audio.Params, error) {
	if flagSettings != "" {
		var p audio.Params
		p.ParseSettingsString(flagSettings)
		return p, nil
	}

	if flagPreset != "" {
		if id, err := strconv.Atoi(flagPreset); err == nil {
			if sfx := audio.Effect(id); sfx != nil {
				return sfx.Params, nil
			}
			return audio.Params{}, fmt.Errorf("no preset with id %d", id)
		}
		for _, sfx := range audio.Library {
			if sfx.Name == flagPreset {
				return sfx.Params, nil
			}
		}
		return audio.Params{}, fmt.Errorf("no preset named %q", flagPreset)
	}

	if flagDesign != "" {
		var rng common.Rand = common.GlobalRand
		if flagSeed != 0 {
			rng = common.NewSeededRNG(flagSeed)
		}
		designers := audio.NewDesigner(rng).Designers()
		design, ok := designers[flagDesign]
		if !ok {
			return audio.Params{}, fmt.Errorf("unknown designer family %q", flagDesign)
		}
		return design(), nil
	}

	return audio.Params{}, fmt.Errorf("one of --settings, --preset or --design is required")
}

func runRender(cmd *cobra.Command, args []string) error {
	p, err := resolveParams()
	if err != nil {
		return err
	}

	wav := audio.RenderWav(p)

	if flagURI || flagOut == "" {
		fmt.Println(audio.DataURI(wav))
	}
	if flagOut != "" {
		if err := os.WriteFile(flagOut, wav, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flagOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %s)\n",
			flagOut, len(wav), p.SettingsString())
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	p, err := resolveParams()
	if err != nil {
		return err
	}
	return playback.Play(audio.RenderPCM(p))
}

func runPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("Library presets:")
	for _, sfx := range audio.Library {
		fmt.Printf("  %2d  %-10s %-9s %s\n", sfx.ID, sfx.Name, sfx.WaveName(), sfx.Description)
	}

	designers := audio.NewDesigner(common.GlobalRand).Designers()
	names := make([]string, 0, len(designers))
	for name := range designers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nDesigner families (use with --design):")
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cacheDir := flagCacheDir
	if flagNoCache {
		cacheDir = ""
	} else if cacheDir == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return err
		}
		cacheDir = dir
	}

	srv, err := server.New(server.Config{Port: flagPort, CacheDir: cacheDir})
	if err != nil {
		return err
	}
	return srv.Run()
}
