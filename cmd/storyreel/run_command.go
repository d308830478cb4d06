package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"storyreel/internal/logging"
	"storyreel/internal/pipeline"
	"storyreel/internal/runstore"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		background   string
		output       string
		noSubtitles  bool
		noTranscribe bool
		trimSilence  bool
		cropSafe     bool
		overlayText  string
		intro        string
		outro        string
	)

	cmd := &cobra.Command{
		Use:   "run [script-file]",
		Short: "Generate a video from a script",
		Long: `Generate a narrated, subtitled video from a script file.
When no file is given (or the file is "-"), the script is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			scriptText, scriptName, err := readScript(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			orch := pipeline.New(cfg, logger)
			if cfg.History.Enabled {
				store, storeErr := runstore.Open(cfg)
				if storeErr != nil {
					logger.Warn("run history unavailable", logging.Error(storeErr))
				} else {
					defer store.Close()
					orch.WithStore(store)
				}
			}

			rc, err := orch.Run(cmd.Context(), pipeline.Request{
				ScriptText:   scriptText,
				ScriptName:   scriptName,
				Background:   background,
				OutputPath:   output,
				NoSubtitles:  noSubtitles,
				NoTranscribe: noTranscribe,
				TrimSilence:  trimSilence,
				CropSafe:     cropSafe,
				OverlayText:  overlayText,
				Intro:        intro,
				Outro:        outro,
			})
			if err != nil {
				if rc != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Run failed; artifacts in %s\n", rc.OutputDir)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video ready: %s\n", rc.FinalVideoPath)
			for _, warning := range rc.Warnings() {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&background, "background", "", "Background style name from the configured style map")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Exact path for the final video (overrides the run directory layout)")
	cmd.Flags().BoolVar(&noSubtitles, "no-subtitles", false, "Skip subtitle generation entirely")
	cmd.Flags().BoolVar(&noTranscribe, "no-transcribe", false, "Derive subtitle timings from the script instead of transcription")
	cmd.Flags().BoolVar(&trimSilence, "trim-silence", false, "Trim leading/trailing silence from the voiceover")
	cmd.Flags().BoolVar(&cropSafe, "crop-safe", false, "Letterbox the background instead of cropping to fill")
	cmd.Flags().StringVar(&overlayText, "overlay", "", "Title text drawn near the top of the video")
	cmd.Flags().StringVar(&intro, "intro", "", "Intro clip prepended to the final video")
	cmd.Flags().StringVar(&outro, "outro", "", "Outro clip appended to the final video")

	return cmd
}

// readScript resolves the script text and a name for the run. A file argument
// names the run after the file; stdin input uses the generic session name.
func readScript(stdin io.Reader, args []string) (text, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return "", "", fmt.Errorf("read script from stdin: %w", readErr)
		}
		return string(data), "stdin", nil
	}

	path := args[0]
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return "", "", fmt.Errorf("read script %s: %w", path, readErr)
	}
	base := filepath.Base(path)
	name = strings.TrimSuffix(base, filepath.Ext(base))
	return string(data), name, nil
}
