package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/crewline/pulse/internal/engine"
	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printBottleneckSummary(s *engine.BottleneckSummary) {
	if jsonOutput {
		printJSON(s)
		return
	}
	fmt.Printf("Projects analyzed: %d\n", s.ProjectsAnalyzed)
	fmt.Printf("Alerts created:    %d\n", s.AlertsCreated)
	if s.Aborted {
		fmt.Println(ui.RenderWarning("Pass aborted: run budget exhausted (partial results above)"))
	}
}

func printSuggestionSummary(s *engine.SuggestionSummary) {
	if jsonOutput {
		printJSON(s)
		return
	}
	fmt.Printf("Profiles analyzed:   %d\n", s.ProfilesAnalyzed)
	fmt.Printf("Suggestions created: %d\n", s.SuggestionsCreated)
	if s.Aborted {
		fmt.Println(ui.RenderWarning("Pass aborted: run budget exhausted (partial results above)"))
	}
}

func printNotificationTable(notifications []*model.Notification) {
	if len(notifications) == 0 {
		fmt.Println(ui.RenderMuted("No notifications."))
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tPRIORITY\tTITLE\tCREATED")
	for _, n := range notifications {
		priority := string(n.Priority)
		if n.Priority == model.PriorityHigh {
			priority = ui.RenderCritical(priority)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			n.ID, n.Category, priority, n.Title,
			n.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
}
