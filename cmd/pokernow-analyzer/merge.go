package main

import (
	"github.com/pokernow/analyzer/cmd/pokernow-analyzer/shared"
	"github.com/pokernow/analyzer/internal/merge"
	"github.com/pokernow/analyzer/internal/storage"
)

// MergeCmd combines analyzed datasets into a single merged dataset on disk
type MergeCmd struct {
	Dirs   []string `kong:"arg,required,help='Analyzed dataset directories to merge'"`
	Output string   `kong:"short='o',default='analysis/merged',help='Merged dataset directory'"`
	Debug  bool     `kong:"help='Enable debug logging'"`
}

func (c *MergeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, "")

	datasets, err := loadDatasets(c.Dirs)
	if err != nil {
		return err
	}

	merger := merge.NewMerger(logger, nil)
	for _, ds := range datasets {
		merger.Add(ds)
	}
	merged := merger.Result()

	summary := storage.NewSummary("merge", merged.Date, merged.Hands, merged.Players)
	if err := storage.Save(c.Output, merged.Hands, merged.Players, summary); err != nil {
		return err
	}

	logger.Info("wrote merged dataset",
		"datasets", len(datasets), "hands", len(merged.Hands),
		"players", len(merged.Players), "output", c.Output)
	return nil
}
