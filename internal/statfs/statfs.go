// Package statfs reports the state of the tree together with the usage of
// the disk its block store lives on.
package statfs

import (
	"context"
	"fmt"

	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/shirou/gopsutil/disk"
	"go.uber.org/zap"
)

type TreeInfo interface {
	Info(ctx context.Context) (models.FSStat, error)
}

type Collector struct {
	tree TreeInfo
	// path on the disk holding the store, "." for in-memory stores.
	path string
}

func NewCollector(tree TreeInfo, path string) *Collector {
	if path == "" {
		path = "."
	}
	return &Collector{tree: tree, path: path}
}

func (c *Collector) StatFS(ctx context.Context) (models.FSStat, error) {
	st, err := c.tree.Info(ctx)
	if err != nil {
		return models.FSStat{}, fmt.Errorf("can not read tree info: %w", err)
	}
	usage, err := disk.UsageWithContext(ctx, c.path)
	if err != nil {
		logger.Log.Warn("can not read disk usage", zap.String("path", c.path), zap.Error(err))
		return st, nil
	}
	st.TotalBytes = usage.Total
	st.FreeBytes = usage.Free
	st.UsedBytes = usage.Used
	st.UsedPct = usage.UsedPercent
	return st, nil
}
