// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ssc-oscar/oscar-go/modules/objscan"
	"github.com/ssc-oscar/oscar-go/modules/shard"
)

// Scan sequentially walks every shard of a sequential data kind
// (commits or trees), printing one line per object and a progress bar
// over the shard count, grounded on pkg/zeta/transfer.go's mpb usage.
type Scan struct {
	Kind  string `arg:"" enum:"commit,tree" help:"Which sequential data kind to scan"`
	Quiet bool   `short:"q" name:"quiet" help:"Suppress the progress bar"`
}

func (c *Scan) Run(g *Globals) error {
	e, err := g.Engine()
	if err != nil {
		return err
	}
	idxKind, binKind := shard.KindCommitSequentialIdx, shard.KindCommitSequentialBin
	if c.Kind == "tree" {
		idxKind, binKind = shard.KindTreeSequentialIdx, shard.KindTreeSequentialBin
	}

	var bar *mpb.Bar
	var p *mpb.Progress
	onProgress := objscan.ProgressFunc(nil)
	if !c.Quiet {
		p = mpb.New(mpb.WithOutput(os.Stderr), mpb.WithAutoRefresh())
		onProgress = func(shardIndex, shardCount int) {
			if bar == nil {
				bar = p.New(int64(shardCount),
					mpb.BarStyle().Filler("#").Padding(" "),
					mpb.PrependDecorators(decor.Name(fmt.Sprintf("scanning %ss", c.Kind))),
					mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
				)
			}
			bar.SetCurrent(int64(shardIndex + 1))
		}
	}

	count := 0
	for rec, err := range objscan.Scan(e.Store(), idxKind, binKind, onProgress) {
		if err != nil {
			return err
		}
		count++
		g.DbgPrint("%s (%d bytes)", rec.SHA, len(rec.Content))
	}
	if p != nil {
		p.Wait()
	}
	fmt.Fprintf(os.Stdout, "scanned %d %s objects\n", count, c.Kind)
	return nil
}
