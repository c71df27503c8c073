package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/lumen-youth/lumen/core/program"
)

// upcoming prints the active programs happening within the next `days` days, soonest first.
func (cli *commandLine) upcoming(days int) error {
	progs, err := cli.programSvc.Upcoming(context.Background(), program.NowFunc(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}
	if len(progs) == 0 {
		fmt.Fprintf(cli.out, "No programs within the next %d days.\n", days)
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	for _, prog := range progs {
		start := prog.StartTime
		if start == "" {
			start = "all day"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", prog.NextOccurrence, start, prog.Title, prog.Schedule)
	}
	return w.Flush()
}
