package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hostkit/host/adaptor"
	"github.com/joshuapare/hostkit/internal/logger"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List network adaptors",
		Long: `The list command enumerates the host's interfaces once and prints
the resulting adaptor records.

Example:
  hostctl list
  hostctl list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

// adaptorView is the printed form of an Adaptor.
type adaptorView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IfIndex      uint32 `json:"ifindex"`
	HardwareAddr string `json:"mac,omitempty"`
	Sightings    uint64 `json:"sightings,omitempty"`
}

func viewOf(ad *adaptor.Adaptor) adaptorView {
	return adaptorView{
		ID:           ad.ID.String(),
		Name:         ad.Name,
		IfIndex:      ad.IfIndex,
		HardwareAddr: ad.HardwareAddr.String(),
		Sightings:    sightings(ad),
	}
}

// sortedViews returns the registry contents ordered by name.
func sortedViews(reg *adaptor.Registry) []adaptorView {
	var views []adaptorView
	for ad := range reg.All() {
		views = append(views, viewOf(ad))
	}
	slices.SortFunc(views, func(a, b adaptorView) int { return strings.Compare(a.Name, b.Name) })
	return views
}

func runList() error {
	reg, _ := newRegistry()

	printVerbose("Enumerating interfaces\n")
	res, err := reg.Refresh(newEnumerator())
	if err != nil {
		if errors.Is(err, adaptor.ErrEnumerate) {
			return err
		}
		logger.Warn("skipped invalid sightings", "err", err)
	}
	printVerbose("Found %d adaptor(s)\n", len(res.Added))

	views := sortedViews(reg)
	if jsonOut {
		if views == nil {
			views = []adaptorView{}
		}
		return printJSON(views)
	}
	printTable(views, false)
	return nil
}

func printTable(views []adaptorView, withCount bool) {
	if quiet {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "NAME\tIFINDEX\tMAC\tID"
	if withCount {
		header += "\tSIGHTINGS"
	}
	fmt.Fprintln(w, header)
	for _, v := range views {
		mac := v.HardwareAddr
		if mac == "" {
			mac = "-"
		}
		line := fmt.Sprintf("%s\t%d\t%s\t%s", v.Name, v.IfIndex, mac, v.ID)
		if withCount {
			line += fmt.Sprintf("\t%d", v.Sightings)
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}
