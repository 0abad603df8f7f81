package run

import (
	"context"
	"flag"
	"io"

	"github.com/edomo/edomo/cmd/edomo/subcmd"
	"github.com/edomo/edomo/hardware/display/epd"
	"github.com/edomo/edomo/internal/state"
	"github.com/edomo/edomo/internal/types"
	"github.com/edomo/edomo/internal/vocab"
	"github.com/fogleman/gg"
	"github.com/juju/errors"
)

var RenderMod = subcmd.Mod{Name: "render", Usage: "[-out file.png] [-sample] draw into PNG instead of panel", Main: RenderMain}

const sampleWeather = "lichte wolkenvelden"

// SampleReadings is preview content, no upstream needed.
var SampleReadings = types.Readings{
	InsideTemperature:  "21.5",
	InsideHumidity:     types.HumidityComfortable,
	AirQualityValue:    "850",
	AirQuality:         types.AirInferior,
	OutsideTemperature: "12.3",
	OutsideWeather:     sampleWeather,
	Weather:            vocab.ClassifyWeather(sampleWeather),
	ServerTime:         "12:34",
	Sunrise:            "07:45",
	Sunset:             "18:02",
}

func RenderMain(ctx context.Context, config *state.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flagOut := fs.String("out", "edomo.png", "PNG output path")
	flagSample := fs.Bool("sample", false, "draw sample readings, skip upstream")
	if err := fs.Parse(args); err != nil {
		return errors.Annotate(err, "render flags")
	}

	config.Display.Driver = state.DriverMock
	g := state.GetGlobal(ctx)
	if err := g.Init(ctx, config); err != nil {
		return err
	}

	if *flagSample {
		c, err := g.Composer()
		if err != nil {
			return errors.Annotate(err, "render")
		}
		if err = c.Render(SampleReadings); err != nil {
			return errors.Annotate(err, "render")
		}
	} else {
		ctrl, err := g.Controller()
		if err != nil {
			return errors.Annotate(err, "render")
		}
		ctrl.RunCycle(ctx)
	}

	dev, err := g.Display()
	if err != nil {
		return errors.Annotate(err, "render")
	}
	mock, ok := dev.(*epd.Mock)
	if !ok {
		return errors.Errorf("render display=%T expected mock", dev)
	}
	if err = gg.SavePNG(*flagOut, mock.Image()); err != nil {
		return errors.Annotatef(err, "render out=%s", *flagOut)
	}
	g.Log.Infof("render out=%s", *flagOut)
	return nil
}
