package main

import (
	"fmt"
	"io"

	"weektrack/pkg/domain"
)

func renderProjects(w io.Writer, projects []domain.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects.")
		return
	}
	for i, p := range projects {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderProject(w, p)
	}
}

func renderProject(w io.Writer, p domain.Project) {
	done, total := p.Progress()
	fmt.Fprintf(w, "%s  (%d/%d done)  [%s]\n", p.Name, done, total, p.ID)
	for _, wk := range p.Weeks {
		fmt.Fprintf(w, "  Week %d: %s\n", wk.Number, wk.Dates)
		for _, c := range wk.Categories {
			fmt.Fprintf(w, "    %s\n", c.Name)
			if len(c.Tasks) == 0 {
				fmt.Fprintln(w, "      (no tasks)")
			}
			for _, t := range c.Tasks {
				mark := " "
				if t.Completed {
					mark = "x"
				}
				fmt.Fprintf(w, "      [%s] %s  [%s]\n", mark, t.Description, t.ID)
			}
		}
	}
}
