package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"veo-story-studio/internal/application/story/prompt"
)

func newPromptsCmd(configPath *string) *cobra.Command {
	var (
		sceneNumber int
		combined    bool
	)

	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Print the compiled Veo prompts",
		Long: `Print the Veo prompt of every scene, in scene order.

Examples:
  studioctl prompts
  studioctl prompts --scene 2
  studioctl prompts --combined`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := loadState(cmd, *configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if combined {
				fmt.Fprint(out, prompt.BuildVEOPrompt(data.Characters, data.Locations, data.Scenes))
				return nil
			}

			docs := prompt.BuildAllSceneVeoPrompts(data.Characters, data.Locations, data.Scenes)
			if sceneNumber > 0 {
				if sceneNumber > len(docs) {
					return fmt.Errorf("scene %d does not exist (story has %d scenes)", sceneNumber, len(docs))
				}
				docs = docs[sceneNumber-1 : sceneNumber]
			}
			if len(docs) == 0 {
				fmt.Fprintln(out, prompt.EmptyStoryText)
				return nil
			}
			for _, d := range docs {
				fmt.Fprint(out, d.Prompt)
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&sceneNumber, "scene", 0, "print only this scene (1-based)")
	cmd.Flags().BoolVar(&combined, "combined", false, "print the combined prompt document")
	return cmd
}
