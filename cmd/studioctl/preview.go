package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"veo-story-studio/internal/application/story/prompt"
)

func newPreviewCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print the story overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := loadState(cmd, *configPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), prompt.BuildStoryPreview(data.Characters, data.Locations, data.Scenes))
			return nil
		},
	}
}
