package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pokernow/analyzer/cmd/pokernow-analyzer/shared"
	"github.com/pokernow/analyzer/internal/display"
	"github.com/pokernow/analyzer/internal/merge"
	"github.com/pokernow/analyzer/internal/stats"
	"github.com/pokernow/analyzer/internal/storage"
)

// StatsCmd computes and prints player statistics for analyzed datasets
type StatsCmd struct {
	Dirs    []string `kong:"arg,required,help='Analyzed dataset directories'"`
	NoMerge bool     `kong:"help='Treat each dataset separately instead of merging'"`
	JSON    bool     `kong:"help='Emit statistics as JSON instead of a table'"`
	Debug   bool     `kong:"help='Enable debug logging'"`
}

func (c *StatsCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, "")

	datasets, err := loadDatasets(c.Dirs)
	if err != nil {
		return err
	}

	if c.NoMerge {
		for i, ds := range datasets {
			if summary, err := storage.LoadSummary(c.Dirs[i]); err == nil {
				fmt.Println(display.SessionSummary(display.DefaultStyles(), summary))
			}
			if err := c.render(ds); err != nil {
				return err
			}
		}
		return nil
	}

	merger := merge.NewMerger(logger, nil)
	for _, ds := range datasets {
		merger.Add(ds)
	}
	return c.render(merger.Result())
}

func (c *StatsCmd) render(ds merge.Dataset) error {
	result := stats.Calculate(ds.Hands, ds.Players)

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	var rows []display.StatsRow
	for key, s := range result {
		var profit float64
		if p, ok := ds.Players[key]; ok {
			profit = p.TotalProfit
		}
		rows = append(rows, display.StatsRow{Name: s.Name, Stats: s, Profit: profit})
	}
	fmt.Print(display.StatsTable(display.DefaultStyles(), rows))
	return nil
}

func loadDatasets(dirs []string) ([]merge.Dataset, error) {
	var datasets []merge.Dataset
	for _, dir := range dirs {
		if !storage.IsDataset(dir) {
			return nil, fmt.Errorf("%s is not an analyzed dataset directory", dir)
		}
		hands, err := storage.LoadHands(dir)
		if err != nil {
			return nil, err
		}
		players, err := storage.LoadPlayers(dir)
		if err != nil {
			return nil, err
		}
		summary, err := storage.LoadSummary(dir)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, merge.Dataset{
			Date:    summary.Date,
			Hands:   hands,
			Players: players,
		})
	}
	return datasets, nil
}
