package cmd

import (
	"fmt"
	"io"

	"github.com/abhisek/skillora/internal/tutor"
	"github.com/spf13/cobra"
)

var curriculumCmd = &cobra.Command{
	Use:   "curriculum",
	Short: "List the topics offered per grade and subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetInt("grade")
		if grade != 0 && (grade < tutor.MinGrade || grade > tutor.MaxGrade) {
			return tutor.ErrInvalidGrade
		}
		printCurriculum(cmd.OutOrStdout(), grade)
		return nil
	},
}

func init() {
	curriculumCmd.Flags().IntP("grade", "g", 0, "Show only this grade")
}

// printCurriculum lists every grade, or just grade when it is non-zero.
func printCurriculum(out io.Writer, grade int) {
	for g := tutor.MinGrade; g <= tutor.MaxGrade; g++ {
		if grade != 0 && g != grade {
			continue
		}
		fmt.Fprintf(out, "%s Grade %d\n", tutor.GradeIcon(g), g)
		for _, s := range tutor.Subjects {
			fmt.Fprintf(out, "  %s\n", tutor.SubjectLabel(s))
			for _, t := range tutor.Topics(g, s) {
				fmt.Fprintf(out, "    - %s\n", t)
			}
		}
	}
}
