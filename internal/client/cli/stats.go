package cli

import (
	"context"
	"fmt"
	"strings"
)

// Stats prints the gallery counters of this run.
func (a *App) Stats(context.Context) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			}
			fmt.Fprintf(a.out, "%s %g\n", name, v)
		}
	}
	return nil
}
