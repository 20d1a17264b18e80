package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"veo-story-studio/internal/application/story"
	"veo-story-studio/internal/domain/entity"
)

// errInvalidStory 存在校验失败的实体时让命令以非零码退出
var errInvalidStory = fmt.Errorf("story has invalid entities")

func newValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every entity in the cached story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := loadState(cmd, *configPath)
			if err != nil {
				return err
			}
			if invalid := report(cmd.OutOrStdout(), data); invalid > 0 {
				return fmt.Errorf("%w: %d", errInvalidStory, invalid)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All entities are valid.")
			return nil
		},
	}
}

// report 打印每个未通过校验的实体及其字段错误，返回失败数量
func report(out io.Writer, data entity.StoryData) int {
	invalid := 0
	emit := func(label string, res story.ValidationResult) {
		if res.IsValid {
			return
		}
		invalid++
		fmt.Fprintln(out, label)
		for _, field := range slices.Sorted(maps.Keys(res.Errors)) {
			fmt.Fprintf(out, "  %s: %s\n", field, res.Errors[field])
		}
	}

	for _, c := range data.Characters {
		emit(fmt.Sprintf("character %s (%s)", c.ID, c.Name), story.ValidateCharacter(c))
	}
	for _, l := range data.Locations {
		emit(fmt.Sprintf("location %s (%s)", l.ID, l.Name), story.ValidateLocation(l))
	}
	for i, sc := range data.Scenes {
		emit(fmt.Sprintf("scene %d %s (%s)", i+1, sc.ID, sc.Title), story.ValidateSceneReferences(sc, data.Locations))
		for j, sh := range sc.Shots {
			emit(fmt.Sprintf("shot %d.%d %s", i+1, j+1, sh.ID), story.ValidateShot(sh))
		}
	}
	return invalid
}
