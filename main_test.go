package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"gridmdp/grid_world"
	"gridmdp/harness"
	"gridmdp/models"
	"gridmdp/reinforcement"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunEpisodes(t *testing.T) {
	Convey("Given the small board and the default config", t, func() {
		quiet := log.New(io.Discard, "", 0)
		cfg := reinforcement.DefaultConfig()
		cfg.Def.Epsilon = 1e-6
		cfg.Episode.MaxSteps = 40
		layout, err := grid_world.FromLayout(selectLayout(true))
		So(err, ShouldBeNil)

		Convey("Every episode is played and the last one is logged", func() {
			published := 0
			elog, err := runEpisodes(context.Background(), cfg, layout, 2, 3,
				func(models.Snapshot) { published++ }, quiet, quiet)
			So(err, ShouldBeNil)
			So(len(elog.results), ShouldEqual, 2)

			last := elog.results[1]
			So(len(elog.sweeps), ShouldEqual, last.Steps)
			So(published, ShouldEqual, elog.results[0].Steps+last.Steps)
			So(last.Steps, ShouldBeLessThanOrEqualTo, cfg.Episode.MaxSteps)
			if last.Status == harness.Running {
				So(last.Truncated, ShouldBeTrue)
			}
		})

		Convey("An invalid solver config fails before playing", func() {
			cfg.Def.DiscountFactor = 2
			_, err := runEpisodes(context.Background(), cfg, layout, 1, 1, nil, quiet, quiet)
			So(err, ShouldNotBeNil)
		})

		Convey("A cancelled context plays nothing", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			elog, err := runEpisodes(ctx, cfg, layout, 3, 1, nil, quiet, quiet)
			So(err, ShouldBeNil)
			So(elog.results, ShouldBeEmpty)
		})

		Convey("The report of an episode is written", func() {
			elog, err := runEpisodes(context.Background(), cfg, layout, 1, 1, nil, quiet, quiet)
			So(err, ShouldBeNil)
			path := filepath.Join(t.TempDir(), "report.html")
			So(writeReport(path, elog), ShouldBeNil)

			page, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(bytes.Contains(page, []byte("Value function")), ShouldBeTrue)
		})
	})
}

func TestSelectLayout(t *testing.T) {
	Convey("Debug mode selects the small board", t, func() {
		So(selectLayout(true), ShouldResemble, grid_world.SmallLayout)
		So(selectLayout(false), ShouldResemble, grid_world.MediumLayout)
	})
}
